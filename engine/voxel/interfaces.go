package voxel

import "github.com/memmaker/chunkcull/engine/util"

// ExtractionProvider hands finished chunk meshes to the render thread.
// Pop must never block.
type ExtractionProvider interface {
	Pop() (*ChunkMeshes, bool)
	ScheduleExtraction(pos Int3) bool
	AllowReExtraction(pos Int3)
}

type ExtractionStats struct {
	Scheduled int
	Extracted int
	Pending   int
	Queued    int
}

// ExtractionStatsProvider is implemented by providers that can report their progress.
type ExtractionStatsProvider interface {
	Stats() ExtractionStats
}

// QueryBackend wraps the GPU occlusion query API. PollResult returns -1 while the result is not available.
type QueryBackend interface {
	GenQuery() QueryID
	DeleteQuery(id QueryID)
	BeginQuery(id QueryID) error
	EndQuery(id QueryID) error
	PollResult(id QueryID) int
	// DisableColorWrites masks color output; the returned func restores it.
	DisableColorWrites() (restore func())
	RenderProxy(box util.AABB)
	Flush()
}

type BatchKind int

const (
	OpaqueBatch BatchKind = iota
	WaterBatch
)

func (k BatchKind) String() string {
	if k == WaterBatch {
		return "water"
	}
	return "opaque"
}

type DrawBackend interface {
	Upload(kind BatchKind, vertices []Vertex, indices []uint32) error
	Draw(kind BatchKind) error
	DrawDebugBoxes(boxes []util.AABB)
}
