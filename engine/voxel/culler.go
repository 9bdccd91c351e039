package voxel

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

type CullStats struct {
	ActiveChunks      int
	Capacity          int
	IndexedChunks     int
	QueryResults      int
	VisibleChunks     int
	OccludedChunks    int
	IssuedQueries     int
	Admitted          int
	DroppedAdmissions int
	RejectedInserts   int
	Evicted           int
	Extraction        ExtractionStats
	Timings           []util.TimerState
}

type FrameResult struct {
	DrawCalls  int
	Vertices   int
	Indices    int
	DebugBoxes int
}

// VisibilityCuller owns the per-frame pipeline: admit new meshes, query the octree, run the
// occlusion queries and merge all surviving chunks into one opaque and one water batch.
// All methods must be called from the render thread.
type VisibilityCuller struct {
	config    *Config
	pool      *ChunkBufferPool
	index     *Octree
	occlusion *OcclusionPipeline
	eviction  *EvictionPolicy
	plants    *PlantDistributor
	provider  ExtractionProvider
	draw      DrawBackend
	timer     *util.Timer

	candidates []BufferHandle
	frustumSet []*ChunkBuffer

	opaqueVertices []Vertex
	opaqueIndices  []uint32
	waterVertices  []Vertex
	waterIndices   []uint32
	debugBoxes     []util.AABB

	stats CullStats
}

func NewVisibilityCuller(config *Config, provider ExtractionProvider, queries QueryBackend, draw DrawBackend, plants *PlantDistributor) *VisibilityCuller {
	pool := NewChunkBufferPool(config.PoolCapacity, queries)
	index := NewOctree(config.WorldBounds(), config.OctreeMaxDepth, config.OctreeNodeCapacity)
	if plants == nil {
		plants = NewPlantDistributor(config.PlantSeed, config.PlantDensity, nil)
	}
	return &VisibilityCuller{
		config:    config,
		pool:      pool,
		index:     index,
		occlusion: NewOcclusionPipeline(queries, config),
		eviction:  NewEvictionPolicy(config, pool, index, provider),
		plants:    plants,
		provider:  provider,
		draw:      draw,
		timer:     util.NewTimer(),
	}
}

func (v *VisibilityCuller) Pool() *ChunkBufferPool    { return v.pool }
func (v *VisibilityCuller) Index() *Octree            { return v.index }
func (v *VisibilityCuller) Plants() *PlantDistributor { return v.plants }
func (v *VisibilityCuller) Config() *Config           { return v.config }

// Update runs the eviction policy for the current camera position.
func (v *VisibilityCuller) Update(cameraPos mgl32.Vec3) []Int3 {
	stop := v.timer.Start("evict")
	evicted := v.eviction.Update(cameraPos)
	stop()
	v.stats.Evicted = len(evicted)
	if len(evicted) > 0 {
		v.plants.Refill(v.pool)
	}
	return evicted
}

// HandleMeshQueue admits at most MaxAdmissionsPerFrame finished meshes. It returns the number admitted.
func (v *VisibilityCuller) HandleMeshQueue() int {
	stop := v.timer.Start("admit")
	defer stop()
	admitted := 0
	for i := 0; i < v.config.MaxAdmissionsPerFrame; i++ {
		meshes, ok := v.provider.Pop()
		if !ok {
			break
		}
		if err := v.admit(meshes); err != nil {
			util.LogCullingWarning("[VisibilityCuller] %v", err)
			continue
		}
		admitted++
	}
	if admitted > 0 {
		v.plants.Refill(v.pool)
	}
	v.stats.Admitted = admitted
	return admitted
}

func (v *VisibilityCuller) admit(meshes *ChunkMeshes) error {
	buffer, err := v.pool.Admit(meshes)
	if err != nil {
		v.stats.DroppedAdmissions++
		v.provider.AllowReExtraction(meshes.Translation)
		return err
	}
	v.plants.Distribute(buffer)
	if !v.index.Insert(buffer.Handle(), buffer.AABB()) {
		v.stats.RejectedInserts++
		v.index.Remove(buffer.Handle())
		v.pool.Release(buffer)
		return errors.Wrapf(ErrIndexRejected, "chunk %s", meshes.Translation)
	}
	return nil
}

// Cull gathers the visible chunks for the camera and merges them into the frame batches.
func (v *VisibilityCuller) Cull(camera util.Camera) {
	v.resetFrame()
	cameraPos := camera.Position()

	stop := v.timer.Start("octree")
	v.candidates = v.index.Query(camera.Frustum(), v.candidates[:0])
	for _, handle := range v.candidates {
		buffer, ok := v.pool.Get(handle)
		if !assertf(ok, "octree returned stale handle %s", handle) {
			continue
		}
		v.frustumSet = append(v.frustumSet, buffer)
	}
	if v.config.SortCandidates {
		sort.Slice(v.frustumSet, func(i, j int) bool {
			return util.DistanceSquared3D(v.frustumSet[i].aabb.Center(), cameraPos) < util.DistanceSquared3D(v.frustumSet[j].aabb.Center(), cameraPos)
		})
	}
	v.stats.QueryResults = len(v.frustumSet)
	stop()

	stop = v.timer.Start("occlusion")
	issued, err := v.occlusion.Issue(cameraPos, v.frustumSet)
	if err != nil {
		util.LogCullingError("[VisibilityCuller] occlusion queries: %v", err)
	}
	v.stats.IssuedQueries = issued
	stop()

	stop = v.timer.Start("merge")
	var opaqueOffset, waterOffset uint32
	for _, buffer := range v.frustumSet {
		occluded := v.occlusion.Classify(buffer, cameraPos).Occluded()
		if occluded {
			v.stats.OccludedChunks++
		} else {
			v.stats.VisibleChunks++
		}
		// RenderOccluded inverts the selection for debugging
		if occluded != v.config.RenderOccluded {
			continue
		}
		if v.config.RenderAABB {
			v.debugBoxes = append(v.debugBoxes, buffer.aabb)
		}
		opaqueOffset += appendMesh(opaqueOffset, buffer.opaque, &v.opaqueVertices, &v.opaqueIndices)
		waterOffset += appendMesh(waterOffset, buffer.water, &v.waterVertices, &v.waterIndices)
	}
	stop()
	assertf(v.stats.VisibleChunks == v.stats.QueryResults-v.stats.OccludedChunks,
		"visible %d != frustum %d - occluded %d", v.stats.VisibleChunks, v.stats.QueryResults, v.stats.OccludedChunks)
}

// Render runs one frame: admission, culling and at most two draw calls.
// Upload failures skip the affected batch and are returned after the other batch was drawn.
func (v *VisibilityCuller) Render(camera util.Camera) (FrameResult, error) {
	v.HandleMeshQueue()
	v.Cull(camera)

	var result FrameResult
	result.Vertices = len(v.opaqueVertices) + len(v.waterVertices)
	result.Indices = len(v.opaqueIndices) + len(v.waterIndices)

	if len(v.debugBoxes) > 0 {
		v.draw.DrawDebugBoxes(v.debugBoxes)
		result.DebugBoxes = len(v.debugBoxes)
	}

	stop := v.timer.Start("draw")
	defer stop()
	var firstErr error
	for _, batch := range []struct {
		kind     BatchKind
		vertices []Vertex
		indices  []uint32
	}{
		{OpaqueBatch, v.opaqueVertices, v.opaqueIndices},
		{WaterBatch, v.waterVertices, v.waterIndices},
	} {
		if len(batch.indices) == 0 {
			continue
		}
		if err := v.drawBatch(batch.kind, batch.vertices, batch.indices); err != nil {
			util.LogCullingError("[VisibilityCuller] %v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.DrawCalls++
	}
	return result, firstErr
}

func (v *VisibilityCuller) drawBatch(kind BatchKind, vertices []Vertex, indices []uint32) error {
	if err := v.draw.Upload(kind, vertices, indices); err != nil {
		if errors.Is(err, ErrUploadFailure) {
			return errors.WithMessagef(err, "%s batch", kind)
		}
		return errors.Wrapf(ErrUploadFailure, "%s batch: %v", kind, err)
	}
	return errors.WithMessagef(v.draw.Draw(kind), "draw %s batch", kind)
}

func (v *VisibilityCuller) resetFrame() {
	v.frustumSet = v.frustumSet[:0]
	v.opaqueVertices = v.opaqueVertices[:0]
	v.opaqueIndices = v.opaqueIndices[:0]
	v.waterVertices = v.waterVertices[:0]
	v.waterIndices = v.waterIndices[:0]
	v.debugBoxes = v.debugBoxes[:0]
	v.stats.QueryResults = 0
	v.stats.VisibleChunks = 0
	v.stats.OccludedChunks = 0
	v.stats.IssuedQueries = 0
}

// FrustumSet is the list of chunks that passed the frustum test in the last Cull.
func (v *VisibilityCuller) FrustumSet() []*ChunkBuffer { return v.frustumSet }

// MergedOpaque and MergedWater expose the merged arrays of the last Cull.
func (v *VisibilityCuller) MergedOpaque() ([]Vertex, []uint32) {
	return v.opaqueVertices, v.opaqueIndices
}
func (v *VisibilityCuller) MergedWater() ([]Vertex, []uint32) { return v.waterVertices, v.waterIndices }

func (v *VisibilityCuller) Stats() CullStats {
	stats := v.stats
	stats.ActiveChunks = v.pool.Active()
	stats.Capacity = v.pool.Capacity()
	stats.IndexedChunks = v.index.Count()
	stats.Timings = v.timer.States()
	if provider, ok := v.provider.(ExtractionStatsProvider); ok {
		stats.Extraction = provider.Stats()
	}
	return stats
}

// Reset releases all chunks and clears the index.
func (v *VisibilityCuller) Reset() {
	v.pool.ForEachActive(func(buffer *ChunkBuffer) {
		v.provider.AllowReExtraction(buffer.translation)
	})
	v.pool.Reset()
	v.index.Clear()
	v.plants.Refill(v.pool)
	v.resetFrame()
	v.stats = CullStats{}
	v.timer.Reset()
}
