package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

type fakeProvider struct {
	queue       []*ChunkMeshes
	scheduled   map[Int3]bool
	reExtracted []Int3
}

func newFakeProvider(meshes ...*ChunkMeshes) *fakeProvider {
	return &fakeProvider{queue: meshes, scheduled: make(map[Int3]bool)}
}

func (f *fakeProvider) Pop() (*ChunkMeshes, bool) {
	if len(f.queue) == 0 {
		return nil, false
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next, true
}

func (f *fakeProvider) ScheduleExtraction(pos Int3) bool {
	if f.scheduled[pos] {
		return false
	}
	f.scheduled[pos] = true
	return true
}

func (f *fakeProvider) AllowReExtraction(pos Int3) {
	delete(f.scheduled, pos)
	f.reExtracted = append(f.reExtracted, pos)
}

type fakeQueries struct {
	nextID      QueryID
	live        map[QueryID]bool
	results     map[QueryID]int
	polls       int
	begun       int
	proxies     []util.AABB
	colorMasked bool
	flushes     int
	failBeginAt int
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		live:        make(map[QueryID]bool),
		results:     make(map[QueryID]int),
		failBeginAt: -1,
	}
}

func (f *fakeQueries) GenQuery() QueryID {
	f.nextID++
	f.live[f.nextID] = true
	return f.nextID
}

func (f *fakeQueries) DeleteQuery(id QueryID) {
	delete(f.live, id)
	delete(f.results, id)
}

func (f *fakeQueries) BeginQuery(id QueryID) error {
	if !f.live[id] {
		return errors.Wrapf(ErrQueryHandleInvalid, "query %d", id)
	}
	if f.failBeginAt >= 0 && f.begun == f.failBeginAt {
		return errors.New("device lost")
	}
	f.begun++
	return nil
}

func (f *fakeQueries) EndQuery(id QueryID) error {
	return nil
}

func (f *fakeQueries) PollResult(id QueryID) int {
	f.polls++
	if result, ok := f.results[id]; ok {
		return result
	}
	return -1
}

func (f *fakeQueries) DisableColorWrites() func() {
	f.colorMasked = true
	return func() { f.colorMasked = false }
}

func (f *fakeQueries) RenderProxy(box util.AABB) {
	f.proxies = append(f.proxies, box)
}

func (f *fakeQueries) Flush() {
	f.flushes++
}

type fakeDraw struct {
	uploads   map[BatchKind][]uint32
	draws     []BatchKind
	boxes     int
	uploadErr map[BatchKind]error
}

func newFakeDraw() *fakeDraw {
	return &fakeDraw{uploads: make(map[BatchKind][]uint32), uploadErr: make(map[BatchKind]error)}
}

func (f *fakeDraw) Upload(kind BatchKind, vertices []Vertex, indices []uint32) error {
	if err := f.uploadErr[kind]; err != nil {
		return err
	}
	f.uploads[kind] = append([]uint32(nil), indices...)
	return nil
}

func (f *fakeDraw) Draw(kind BatchKind) error {
	f.draws = append(f.draws, kind)
	return nil
}

func (f *fakeDraw) DrawDebugBoxes(boxes []util.AABB) {
	f.boxes += len(boxes)
}

type testCamera struct {
	frustum  util.Frustum
	position mgl32.Vec3
}

func (c testCamera) Frustum() util.Frustum { return c.frustum }
func (c testCamera) Position() mgl32.Vec3  { return c.position }
func (c testCamera) FarPlane() float32     { return 1000 }

// boxFrustum builds an orthographic frustum covering exactly [lo, hi].
func boxFrustum(lo, hi mgl32.Vec3) util.Frustum {
	eye := hi.Z() + 1
	return util.NewFrustum(
		mgl32.Ortho(lo.X(), hi.X(), lo.Y(), hi.Y(), 1, eye-lo.Z()),
		mgl32.Translate3D(0, 0, -eye),
	)
}

// cubeMeshes spans a closed box of the given size at translation. Water is a single quad on top.
func cubeMeshes(translation Int3, size int32, withWater bool) *ChunkMeshes {
	meshes := &ChunkMeshes{Translation: translation}
	for i := int32(0); i < 8; i++ {
		corner := Int3{(i & 1) * size, ((i >> 1) & 1) * size, ((i >> 2) & 1) * size}
		meshes.Opaque.Vertices = append(meshes.Opaque.Vertices, Vertex{Position: translation.Add(corner), Material: 1})
	}
	meshes.Opaque.Indices = []uint32{
		0, 1, 3, 0, 3, 2, 4, 6, 7, 4, 7, 5,
		0, 4, 5, 0, 5, 1, 2, 3, 7, 2, 7, 6,
		0, 2, 6, 0, 6, 4, 1, 5, 7, 1, 7, 3,
	}
	if withWater {
		top := size - 1
		for _, corner := range []Int3{{0, top, 0}, {size, top, 0}, {size, top, size}, {0, top, size}} {
			meshes.Water.Vertices = append(meshes.Water.Vertices, Vertex{Position: translation.Add(corner), Material: 9})
		}
		meshes.Water.Indices = []uint32{0, 1, 2, 0, 2, 3}
	}
	return meshes
}
