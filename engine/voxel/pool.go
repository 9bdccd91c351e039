package voxel

import (
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

// ChunkBufferPool is a fixed-size arena of chunk slots. Slots are never allocated after construction.
type ChunkBufferPool struct {
	buffers []ChunkBuffer
	active  int
	queries QueryBackend
}

func NewChunkBufferPool(capacity int, queries QueryBackend) *ChunkBufferPool {
	p := &ChunkBufferPool{
		buffers: make([]ChunkBuffer, capacity),
		queries: queries,
	}
	for i := range p.buffers {
		p.buffers[i].index = i
	}
	return p
}

func (p *ChunkBufferPool) Capacity() int { return len(p.buffers) }
func (p *ChunkBufferPool) Active() int   { return p.active }

// Admit stores the meshes in the slot already holding their translation, or in the first free slot.
// Re-admitting a translation replaces the slot's meshes and keeps its handle.
func (p *ChunkBufferPool) Admit(meshes *ChunkMeshes) (*ChunkBuffer, error) {
	var target *ChunkBuffer
	for i := range p.buffers {
		buffer := &p.buffers[i]
		if buffer.inUse && buffer.translation == meshes.Translation {
			target = buffer
			break
		}
		if target == nil && !buffer.inUse {
			target = buffer
		}
	}
	if target == nil {
		util.LogVoxelWarning("[ChunkBufferPool] no free slot for chunk %s (%d/%d in use)", meshes.Translation, p.active, len(p.buffers))
		return nil, errors.Wrapf(ErrPoolExhausted, "admit %s", meshes.Translation)
	}

	claimed := !target.inUse
	if target.occlusionQueryID == InvalidQueryID {
		id := p.queries.GenQuery()
		if id == InvalidQueryID {
			return nil, errors.Wrapf(ErrQueryHandleInvalid, "admit %s", meshes.Translation)
		}
		target.occlusionQueryID = id
	}
	if claimed {
		target.inUse = true
		target.translation = meshes.Translation
		target.occludedLastFrame = false
		target.pendingResult = false
		target.resolved = false
		p.active++
	}
	target.opaque = meshes.Opaque
	target.water = meshes.Water
	target.plantCandidates = meshes.PlantPositions
	target.instancedPositions = nil
	target.aabb = meshes.boundsOf()
	util.LogVoxelDebug("[ChunkBufferPool] admitted %s into slot %s", meshes.Translation, target.Handle())
	return target, nil
}

// Release frees the slot and its query. Releasing a free slot is a no-op.
// A result still pending on the query is discarded.
func (p *ChunkBufferPool) Release(buffer *ChunkBuffer) {
	if buffer == nil || !buffer.inUse {
		return
	}
	if buffer.occlusionQueryID != InvalidQueryID {
		p.queries.DeleteQuery(buffer.occlusionQueryID)
		buffer.occlusionQueryID = InvalidQueryID
	}
	buffer.inUse = false
	buffer.occludedLastFrame = false
	buffer.pendingResult = false
	buffer.resolved = false
	buffer.opaque = Mesh{}
	buffer.water = Mesh{}
	buffer.plantCandidates = nil
	buffer.instancedPositions = nil
	buffer.generation++
	p.active--
}

// Get resolves a handle. Handles to released slots do not resolve.
func (p *ChunkBufferPool) Get(handle BufferHandle) (*ChunkBuffer, bool) {
	if handle.Index < 0 || handle.Index >= len(p.buffers) {
		return nil, false
	}
	buffer := &p.buffers[handle.Index]
	if !buffer.inUse || buffer.generation != handle.Generation {
		return nil, false
	}
	return buffer, true
}

// Find returns the in-use slot holding the translation.
func (p *ChunkBufferPool) Find(translation Int3) (*ChunkBuffer, bool) {
	for i := range p.buffers {
		if p.buffers[i].inUse && p.buffers[i].translation == translation {
			return &p.buffers[i], true
		}
	}
	return nil, false
}

// ForEachActive visits the in-use slots in slot order. Releasing the visited slot is allowed.
func (p *ChunkBufferPool) ForEachActive(visit func(buffer *ChunkBuffer)) {
	for i := range p.buffers {
		if p.buffers[i].inUse {
			visit(&p.buffers[i])
		}
	}
}

// Reset releases every slot.
func (p *ChunkBufferPool) Reset() {
	p.ForEachActive(p.Release)
}
