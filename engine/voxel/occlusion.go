package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

// OcclusionPipeline issues one proxy-box query per frustum candidate and turns finished
// results into a per-chunk verdict. Results are read at least one frame late.
type OcclusionPipeline struct {
	queries QueryBackend
	config  *Config
}

func NewOcclusionPipeline(queries QueryBackend, config *Config) *OcclusionPipeline {
	return &OcclusionPipeline{queries: queries, config: config}
}

// Issue draws the bounding box of every candidate without a pending query while color writes are
// masked. Chunks containing the camera are skipped. Color writes are restored on every exit path.
func (o *OcclusionPipeline) Issue(cameraPos mgl32.Vec3, candidates []*ChunkBuffer) (int, error) {
	if !o.config.OcclusionQuery {
		return 0, nil
	}
	restore := o.queries.DisableColorWrites()
	defer func() {
		o.queries.Flush()
		restore()
	}()

	issued := 0
	for _, buffer := range candidates {
		if buffer.pendingResult || buffer.aabb.Contains(cameraPos) {
			continue
		}
		if !assertf(buffer.occlusionQueryID != InvalidQueryID, "chunk %s has no occlusion query", buffer.translation) {
			continue
		}
		if err := o.queries.BeginQuery(buffer.occlusionQueryID); err != nil {
			return issued, errors.Wrapf(err, "begin occlusion query for %s", buffer.translation)
		}
		o.queries.RenderProxy(buffer.aabb)
		if err := o.queries.EndQuery(buffer.occlusionQueryID); err != nil {
			return issued, errors.Wrapf(err, "end occlusion query for %s", buffer.translation)
		}
		buffer.pendingResult = true
		issued++
	}
	return issued, nil
}

// Classify decides whether the chunk is drawn this frame. It never blocks on the GPU:
// unfinished queries fall back to the previous verdict.
func (o *OcclusionPipeline) Classify(buffer *ChunkBuffer, cameraPos mgl32.Vec3) OcclusionState {
	if !o.config.OcclusionQuery {
		return buffer.lastFrameState()
	}
	if buffer.aabb.Contains(cameraPos) {
		buffer.occludedLastFrame = false
		return OcclusionVisible
	}
	if !buffer.pendingResult {
		return buffer.lastFrameState()
	}
	if !assertf(buffer.occlusionQueryID != InvalidQueryID, "pending chunk %s has no occlusion query", buffer.translation) {
		return buffer.lastFrameState()
	}
	samples := o.queries.PollResult(buffer.occlusionQueryID)
	if samples < 0 {
		return buffer.lastFrameState()
	}
	buffer.occludedLastFrame = samples < o.config.OcclusionThreshold
	buffer.pendingResult = false
	buffer.resolved = true
	util.LogCullingDebug("[OcclusionPipeline] %s resolved with %d samples", buffer.translation, samples)
	return buffer.lastFrameState()
}
