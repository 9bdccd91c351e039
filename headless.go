package main

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/extraction"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// raycastOcclusion answers occlusion queries on the CPU by casting rays from the camera to the
// top of each proxy box through the volume. Results become available one frame after issue.
type raycastOcclusion struct {
	volume *extraction.Volume
	camera mgl32.Vec3
	frame  int

	nextID  voxel.QueryID
	active  voxel.QueryID
	issued  map[voxel.QueryID]int
	samples map[voxel.QueryID]int
}

func newRaycastOcclusion(volume *extraction.Volume) *raycastOcclusion {
	return &raycastOcclusion{
		volume:  volume,
		issued:  make(map[voxel.QueryID]int),
		samples: make(map[voxel.QueryID]int),
	}
}

func (h *raycastOcclusion) beginFrame(camera mgl32.Vec3) {
	h.frame++
	h.camera = camera
}

// visibleSamples reports how many of the proxy's top corners and center the camera can see.
func (h *raycastOcclusion) visibleSamples(box util.AABB) int {
	lo, hi := box.Min(), box.Max()
	targets := []mgl32.Vec3{
		{(lo.X() + hi.X()) / 2, hi.Y(), (lo.Z() + hi.Z()) / 2},
		{lo.X(), hi.Y(), lo.Z()}, {hi.X(), hi.Y(), lo.Z()},
		{lo.X(), hi.Y(), hi.Z()}, {hi.X(), hi.Y(), hi.Z()},
	}
	samples := 0
	for _, target := range targets {
		if h.volume.LineOfSight(h.camera, target) {
			samples += 100
		}
	}
	return samples
}

func (h *raycastOcclusion) GenQuery() voxel.QueryID {
	h.nextID++
	return h.nextID
}

func (h *raycastOcclusion) DeleteQuery(id voxel.QueryID) {
	delete(h.issued, id)
	delete(h.samples, id)
}

func (h *raycastOcclusion) BeginQuery(id voxel.QueryID) error {
	if id == voxel.InvalidQueryID {
		return voxel.ErrQueryHandleInvalid
	}
	h.active = id
	return nil
}

func (h *raycastOcclusion) EndQuery(id voxel.QueryID) error {
	if h.active != id {
		return errors.Errorf("query %d ended while %d is active", id, h.active)
	}
	h.active = voxel.InvalidQueryID
	h.issued[id] = h.frame
	return nil
}

func (h *raycastOcclusion) PollResult(id voxel.QueryID) int {
	issuedFrame, ok := h.issued[id]
	if !ok || issuedFrame == h.frame {
		return -1
	}
	return h.samples[id]
}

func (h *raycastOcclusion) DisableColorWrites() func() { return func() {} }

func (h *raycastOcclusion) RenderProxy(box util.AABB) {
	h.samples[h.active] = h.visibleSamples(box)
}

func (h *raycastOcclusion) Flush() {}

// countingDraw stands in for the GPU and only counts what would be drawn.
type countingDraw struct {
	vertices, indices, boxes int
}

func (c *countingDraw) Upload(kind voxel.BatchKind, vertices []voxel.Vertex, indices []uint32) error {
	c.vertices += len(vertices)
	c.indices += len(indices)
	return nil
}

func (c *countingDraw) Draw(kind voxel.BatchKind) error { return nil }

func (c *countingDraw) DrawDebugBoxes(boxes []util.AABB) { c.boxes += len(boxes) }

type statusLine struct {
	interactive bool
	width       int
}

func newStatusLine(file *os.File) statusLine {
	fd := int(file.Fd())
	status := statusLine{interactive: term.IsTerminal(fd), width: 120}
	if status.interactive {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			status.width = width
		}
	}
	return status
}

func (s statusLine) fit(line string) string {
	if len(line) > s.width-1 {
		return line[:s.width-1]
	}
	return line
}

func (s statusLine) print(frame int, line string) {
	if s.interactive {
		fmt.Printf("\r%-*s", s.width-1, s.fit(line))
	} else if frame%60 == 0 {
		fmt.Println(line)
	}
}

func (s statusLine) done() {
	if s.interactive {
		fmt.Println()
	}
}

// flyCircle turns the camera a little every frame so it circles around its start.
func flyCircle(camera *util.FPSCamera) {
	camera.ChangeAngles(0.5, 0)
	camera.MoveInDirection(2, [2]int{0, 1})
}

func runHeadless(ctx context.Context, config *voxel.Config, volume *extraction.Volume, extractor *extraction.Extractor, plants *voxel.PlantDistributor, frames int, mapFile string) error {
	queries := newRaycastOcclusion(volume)
	draw := &countingDraw{}
	culler := voxel.NewVisibilityCuller(config, extractor, queries, draw, plants)

	center := volume.Size().ToVec3().Mul(0.5)
	start := mgl32.Vec3{center.X(), float32(volume.ColumnHeight(int32(center.X()), int32(center.Z())) + 8), center.Z()}
	camera := util.NewFPSCamera(start, 1280, 720, 1)
	camera.SetFarPlane(float32(config.ViewDistance + config.MeshSize))

	status := newStatusLine(os.Stdout)
	var drawCalls, visible, occluded int
	frame := 0
	for ; frame < frames; frame++ {
		if ctx.Err() != nil {
			break
		}
		flyCircle(camera)
		position := camera.Position()
		queries.beginFrame(position)
		if frame%extractEveryNthFrame == 0 {
			extractor.ExtractAround(voxel.Int3FromVec3(position), config.ViewDistance/config.MeshSize)
		}
		culler.Update(position)
		result, err := culler.Render(camera)
		if err != nil {
			util.LogCullingError("[Headless] frame %d: %v", frame, err)
		}
		stats := culler.Stats()
		drawCalls += result.DrawCalls
		visible += stats.VisibleChunks
		occluded += stats.OccludedChunks
		status.print(frame, fmt.Sprintf("frame %d | active %d/%d | frustum %d | visible %d | occluded %d | vertices %d | pending %d",
			frame, stats.ActiveChunks, stats.Capacity, stats.QueryResults, stats.VisibleChunks, stats.OccludedChunks, result.Vertices, stats.Extraction.Pending))
	}
	status.done()

	stats := culler.Stats()
	fmt.Printf("%d frames, %d draw calls, %d visible and %d occluded chunk draws, %d vertices uploaded\n",
		frame, drawCalls, visible, occluded, draw.vertices)
	for _, timing := range stats.Timings {
		fmt.Println(timing)
	}

	if mapFile == "" {
		return nil
	}
	img := RenderVisibilityMap(volume, culler, camera, fmt.Sprintf("frame %d  visible %d  occluded %d", frame, stats.VisibleChunks, stats.OccludedChunks))
	file, err := os.Create(mapFile)
	if err != nil {
		return errors.Wrap(err, "create visibility map")
	}
	defer file.Close()
	return errors.Wrap(png.Encode(file, img), "encode visibility map")
}
