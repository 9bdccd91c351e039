package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
)

// QueryID names a GPU occlusion query object. Zero is never a valid name.
type QueryID uint32

const InvalidQueryID QueryID = 0

// BufferHandle refers to a pool slot. The generation changes every time the slot is released,
// so a handle held across a release no longer resolves.
type BufferHandle struct {
	Index      int
	Generation uint32
}

func (h BufferHandle) String() string {
	return fmt.Sprintf("#%d/%d", h.Index, h.Generation)
}

type OcclusionState int

const (
	OcclusionUnknown OcclusionState = iota
	OcclusionVisible
	OcclusionOccluded
)

func (s OcclusionState) Occluded() bool {
	return s == OcclusionOccluded
}

func (s OcclusionState) String() string {
	switch s {
	case OcclusionVisible:
		return "Visible"
	case OcclusionOccluded:
		return "Occluded"
	}
	return "Unknown"
}

type QueryPhase int

const (
	QueryUnresolved QueryPhase = iota
	QueryPending
	QueryResolved
)

func (p QueryPhase) String() string {
	switch p {
	case QueryPending:
		return "Pending"
	case QueryResolved:
		return "Resolved"
	}
	return "Unresolved"
}

// ChunkBuffer is one pool slot. While in use it owns the chunk's meshes and occlusion query.
type ChunkBuffer struct {
	index      int
	generation uint32
	inUse      bool

	translation Int3
	aabb        util.AABB
	opaque      Mesh
	water       Mesh

	occlusionQueryID  QueryID
	occludedLastFrame bool
	pendingResult     bool
	resolved          bool

	plantCandidates    []mgl32.Vec3
	instancedPositions []mgl32.Vec3
}

func (c *ChunkBuffer) Handle() BufferHandle {
	return BufferHandle{Index: c.index, Generation: c.generation}
}

func (c *ChunkBuffer) InUse() bool               { return c.inUse }
func (c *ChunkBuffer) Translation() Int3         { return c.translation }
func (c *ChunkBuffer) AABB() util.AABB           { return c.aabb }
func (c *ChunkBuffer) Opaque() Mesh              { return c.opaque }
func (c *ChunkBuffer) Water() Mesh               { return c.water }
func (c *ChunkBuffer) OcclusionQueryID() QueryID { return c.occlusionQueryID }
func (c *ChunkBuffer) OccludedLastFrame() bool   { return c.occludedLastFrame }
func (c *ChunkBuffer) PendingResult() bool       { return c.pendingResult }

// InstancedPositions are the plant placements this chunk contributes.
func (c *ChunkBuffer) InstancedPositions() []mgl32.Vec3 {
	return c.instancedPositions
}

func (c *ChunkBuffer) OcclusionState() OcclusionState {
	if !c.resolved {
		return OcclusionUnknown
	}
	if c.occludedLastFrame {
		return OcclusionOccluded
	}
	return OcclusionVisible
}

func (c *ChunkBuffer) QueryPhase() QueryPhase {
	if c.pendingResult {
		return QueryPending
	}
	if c.resolved {
		return QueryResolved
	}
	return QueryUnresolved
}

func (c *ChunkBuffer) lastFrameState() OcclusionState {
	if c.occludedLastFrame {
		return OcclusionOccluded
	}
	return OcclusionVisible
}

func (c *ChunkBuffer) String() string {
	return fmt.Sprintf("ChunkBuffer(%s at %s, %s)", c.Handle(), c.translation, c.OcclusionState())
}
