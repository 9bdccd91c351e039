package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
)

// EvictionPolicy releases chunks whose planar distance to the camera reaches the view distance
// plus one mesh. Height is ignored.
type EvictionPolicy struct {
	config   *Config
	pool     *ChunkBufferPool
	index    *Octree
	provider ExtractionProvider
	evicted  []Int3
}

func NewEvictionPolicy(config *Config, pool *ChunkBufferPool, index *Octree, provider ExtractionProvider) *EvictionPolicy {
	return &EvictionPolicy{config: config, pool: pool, index: index, provider: provider}
}

// Update evicts out-of-range chunks and returns their translations. The slice is reused by the next call.
func (e *EvictionPolicy) Update(cameraPos mgl32.Vec3) []Int3 {
	e.evicted = e.evicted[:0]
	threshold := e.config.EvictionDistanceSquared()
	camera := Int3FromVec3(cameraPos)
	e.pool.ForEachActive(func(buffer *ChunkBuffer) {
		if buffer.translation.DistanceSquaredXZ(camera) < threshold {
			return
		}
		translation := buffer.translation
		e.index.Remove(buffer.Handle())
		e.pool.Release(buffer)
		if e.provider != nil {
			e.provider.AllowReExtraction(translation)
		}
		e.evicted = append(e.evicted, translation)
	})
	if len(e.evicted) > 0 {
		util.LogCullingDebug("[EvictionPolicy] evicted %d chunks around %s", len(e.evicted), camera)
	}
	return e.evicted
}
