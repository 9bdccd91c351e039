package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDistanceSquaredXZFarApart(t *testing.T) {
	a := Int3{X: 1_500_000_000, Y: 7}
	b := Int3{X: -1_500_000_000, Z: 3}
	want := int64(3_000_000_000)*3_000_000_000 + 9
	if got := a.DistanceSquaredXZ(b); got != want {
		t.Errorf("distance = %d, want %d", got, want)
	}
}

func TestEvictionBoundary(t *testing.T) {
	config := DefaultConfig()
	provider := newFakeProvider()
	queries := newFakeQueries()
	pool := NewChunkBufferPool(8, queries)
	tree := NewOctree(config.WorldBounds(), config.OctreeMaxDepth, config.OctreeNodeCapacity)
	policy := NewEvictionPolicy(config, pool, tree, provider)

	admit := func(translation Int3) *ChunkBuffer {
		buffer, err := pool.Admit(cubeMeshes(translation, 16, false))
		if err != nil {
			t.Fatal(err)
		}
		tree.Insert(buffer.Handle(), buffer.AABB())
		return buffer
	}
	far := admit(Int3{516, 0, 0})
	near := admit(Int3{515, 0, 0})
	high := admit(Int3{0, 200, 500})
	farQuery := far.OcclusionQueryID()
	farHandle := far.Handle()

	// the fraction is truncated like an integer cast
	evicted := policy.Update(mgl32.Vec3{0.9, 5000, 0.5})
	if len(evicted) != 1 || evicted[0] != (Int3{516, 0, 0}) {
		t.Fatalf("evicted = %v", evicted)
	}
	if tree.Contains(farHandle) || queries.live[farQuery] || pool.Active() != 2 {
		t.Error("evicted chunk not fully released")
	}
	if !near.InUse() || !high.InUse() || !tree.Contains(near.Handle()) {
		t.Error("chunk inside the view distance was evicted")
	}
	if len(provider.reExtracted) != 1 || provider.reExtracted[0] != (Int3{516, 0, 0}) {
		t.Errorf("re-extraction not allowed: %v", provider.reExtracted)
	}
}

func TestEvictionFollowsViewDistance(t *testing.T) {
	config := DefaultConfig()
	pool := NewChunkBufferPool(4, newFakeQueries())
	tree := NewOctree(config.WorldBounds(), config.OctreeMaxDepth, config.OctreeNodeCapacity)
	policy := NewEvictionPolicy(config, pool, tree, nil)
	buffer, _ := pool.Admit(cubeMeshes(Int3{300, 0, 300}, 16, false))
	tree.Insert(buffer.Handle(), buffer.AABB())

	if evicted := policy.Update(mgl32.Vec3{}); len(evicted) != 0 {
		t.Fatalf("evicted %v at the default distance", evicted)
	}
	config.SetViewDistance(100)
	if evicted := policy.Update(mgl32.Vec3{}); len(evicted) != 1 {
		t.Fatalf("evicted %v after shrinking the view distance", evicted)
	}
}
