package main

import (
	"github.com/faiface/mainthread"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/extraction"
	"github.com/memmaker/chunkcull/engine/glhf"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
	"github.com/pkg/errors"
)

const extractEveryNthFrame = 30

// ChunkViewer flies an FPS camera over the volume and renders the culled chunk batches.
type ChunkViewer struct {
	*util.GlApplication
	config    *voxel.Config
	camera    *util.FPSCamera
	extractor *extraction.Extractor
	culler    *voxel.VisibilityCuller
	queries   *glhf.OcclusionQueries
	batches   *glhf.ChunkBatchRenderer

	lastMouseX, lastMouseY float64
	mouseCaptured          bool
	moveDir                [2]int
	moveSpeed              float32
	frame                  uint64
}

func NewChunkViewer(title string, width, height int, config *voxel.Config, volume *extraction.Volume, extractor *extraction.Extractor, plants *voxel.PlantDistributor) (*ChunkViewer, error) {
	var viewer *ChunkViewer
	var err error
	mainthread.Call(func() {
		viewer, err = newChunkViewer(title, width, height, config, volume, extractor, plants)
	})
	return viewer, err
}

func newChunkViewer(title string, width, height int, config *voxel.Config, volume *extraction.Volume, extractor *extraction.Extractor, plants *voxel.PlantDistributor) (*ChunkViewer, error) {
	window, terminateFunc, err := util.InitOpenGL(title, width, height)
	if err != nil {
		return nil, err
	}
	if err = glhf.Init(); err != nil {
		terminateFunc()
		return nil, err
	}
	util.SetupDepthState()

	queries, err := glhf.NewOcclusionQueries()
	if err != nil {
		terminateFunc()
		return nil, errors.Wrap(err, "occlusion queries")
	}
	batches, err := glhf.NewChunkBatchRenderer()
	if err != nil {
		terminateFunc()
		return nil, errors.Wrap(err, "chunk batches")
	}

	center := volume.Size().ToVec3().Mul(0.5)
	start := mgl32.Vec3{center.X(), float32(volume.ColumnHeight(int32(center.X()), int32(center.Z())) + 24), center.Z()}
	glApp := &util.GlApplication{
		WindowWidth:   width,
		WindowHeight:  height,
		Window:        window,
		TerminateFunc: terminateFunc,
	}
	window.SetKeyCallback(glApp.KeyCallback)
	window.SetCursorPosCallback(glApp.MousePosCallback)
	window.SetScrollCallback(glApp.ScrollCallback)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	viewer := &ChunkViewer{
		GlApplication: glApp,
		config:        config,
		camera:        util.NewFPSCamera(start, width, height, 0.15),
		extractor:     extractor,
		culler:        voxel.NewVisibilityCuller(config, extractor, queries, batches, plants),
		queries:       queries,
		batches:       batches,
		moveSpeed:     40,
	}
	viewer.updateFarPlane()
	viewer.UpdateFunc = viewer.Update
	viewer.DrawFunc = viewer.Draw
	viewer.KeyHandler = viewer.handleKeyEvents
	viewer.MousePosHandler = viewer.handleMousePosEvents
	viewer.ScrollHandler = viewer.handleScrollEvents
	return viewer, nil
}

func (v *ChunkViewer) Update(elapsed float64) {
	if v.moveDir != [2]int{} {
		v.camera.MoveInDirection(float32(elapsed)*v.moveSpeed, v.moveDir)
	}
	position := v.camera.Position()
	v.culler.Update(position)
	if v.frame%extractEveryNthFrame == 0 {
		v.extractor.ExtractAround(voxel.Int3FromVec3(position), v.config.ViewDistance/v.config.MeshSize)
	}
	v.frame++
}

func (v *ChunkViewer) Draw(elapsed float64) {
	projectionView := v.camera.GetProjectionViewMatrix()
	v.queries.SetProjectionView(projectionView)
	v.batches.SetProjectionView(projectionView)
	if _, err := v.culler.Render(v.camera); err != nil {
		util.LogCullingError("[ChunkViewer] %v", err)
	}
}

func (v *ChunkViewer) updateFarPlane() {
	v.camera.SetFarPlane(float32(v.config.ViewDistance + v.config.MeshSize))
}

func (v *ChunkViewer) logStats() {
	stats := v.culler.Stats()
	util.LogCullingInfo("[ChunkViewer] %s", v.camera.DebugAim())
	util.LogCullingInfo("[ChunkViewer] active %d/%d, frustum %d, visible %d, occluded %d, queries %d, dropped %d",
		stats.ActiveChunks, stats.Capacity, stats.QueryResults, stats.VisibleChunks, stats.OccludedChunks, stats.IssuedQueries, stats.DroppedAdmissions)
	util.LogCullingInfo("[ChunkViewer] extraction: scheduled %d, extracted %d, pending %d, queued %d",
		stats.Extraction.Scheduled, stats.Extraction.Extracted, stats.Extraction.Pending, stats.Extraction.Queued)
	for _, timing := range stats.Timings {
		util.LogCullingInfo("[ChunkViewer] %s", timing)
	}
}

func (v *ChunkViewer) handleKeyEvents(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	pressed := action == glfw.Press
	axis := 0
	if pressed {
		axis = 1
	}
	switch key {
	case glfw.KeyW:
		v.moveDir[1] = axis
	case glfw.KeyS:
		v.moveDir[1] = -axis
	case glfw.KeyD:
		v.moveDir[0] = axis
	case glfw.KeyA:
		v.moveDir[0] = -axis
	}
	if !pressed {
		return
	}
	switch key {
	case glfw.KeyEscape:
		v.Window.SetShouldClose(true)
	case glfw.KeyF1:
		v.config.SetOcclusionQuery(!v.config.OcclusionQuery)
		util.LogCullingInfo("[ChunkViewer] occlusion queries: %v", v.config.OcclusionQuery)
	case glfw.KeyF2:
		v.config.SetRenderOccluded(!v.config.RenderOccluded)
	case glfw.KeyF3:
		v.config.SetRenderAABB(!v.config.RenderAABB)
	case glfw.KeyF4:
		v.config.SortCandidates = !v.config.SortCandidates
	case glfw.KeyF5:
		v.logStats()
	case glfw.KeyEqual:
		v.config.SetViewDistance(v.config.ViewDistance + v.config.MeshSize)
		v.updateFarPlane()
	case glfw.KeyMinus:
		v.config.SetViewDistance(v.config.ViewDistance - v.config.MeshSize)
		v.updateFarPlane()
	}
}

func (v *ChunkViewer) handleMousePosEvents(xpos float64, ypos float64) {
	if !v.mouseCaptured {
		v.lastMouseX, v.lastMouseY = xpos, ypos
		v.mouseCaptured = true
		return
	}
	v.camera.ChangeAngles(float32(xpos-v.lastMouseX), float32(ypos-v.lastMouseY))
	v.lastMouseX, v.lastMouseY = xpos, ypos
}

func (v *ChunkViewer) handleScrollEvents(xoff float64, yoff float64) {
	v.moveSpeed = mgl32.Clamp(v.moveSpeed+float32(yoff)*5, 5, 400)
}
