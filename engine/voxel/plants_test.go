package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func plantCandidates(n int) []mgl32.Vec3 {
	result := make([]mgl32.Vec3, n)
	for i := range result {
		result[i] = mgl32.Vec3{float32(i), 16, 0}
	}
	return result
}

func TestDistributeIsDeterministic(t *testing.T) {
	distributor := NewPlantDistributor(42, 0.5, nil)
	pool := NewChunkBufferPool(2, newFakeQueries())
	meshes := cubeMeshes(Int3{32, 0, 64}, 16, false)
	meshes.PlantPositions = plantCandidates(200)

	first, _ := pool.Admit(meshes)
	distributor.Distribute(first)
	picked := append([]mgl32.Vec3(nil), first.InstancedPositions()...)
	if len(picked) == 0 || len(picked) == 200 {
		t.Fatalf("density 0.5 picked %d of 200", len(picked))
	}

	again, _ := pool.Admit(meshes)
	distributor.Distribute(again)
	if len(again.InstancedPositions()) != len(picked) {
		t.Fatalf("second run picked %d, first %d", len(again.InstancedPositions()), len(picked))
	}
	for i, p := range again.InstancedPositions() {
		if p != picked[i] {
			t.Fatalf("position %d differs: %v != %v", i, p, picked[i])
		}
	}
}

func TestRefillSplitsEvenlyWithRemainderFirst(t *testing.T) {
	types := []*PlantType{{Name: "grass"}, {Name: "fern"}, {Name: "flower"}}
	distributor := NewPlantDistributor(1, 1, types)
	pool := NewChunkBufferPool(2, newFakeQueries())
	meshes := cubeMeshes(Int3{0, 0, 0}, 16, false)
	meshes.PlantPositions = plantCandidates(7)
	buffer, _ := pool.Admit(meshes)
	distributor.Distribute(buffer)

	distributor.Refill(pool)
	counts := []int{len(types[0].Positions), len(types[1].Positions), len(types[2].Positions)}
	if counts[0] != 3 || counts[1] != 2 || counts[2] != 2 {
		t.Errorf("counts = %v", counts)
	}
	seen := make(map[mgl32.Vec3]bool)
	for _, plantType := range types {
		for _, p := range plantType.Positions {
			if seen[p] {
				t.Errorf("%v assigned twice", p)
			}
			seen[p] = true
		}
	}

	distributor.Refill(pool)
	if len(types[0].Positions) != 3 {
		t.Error("refill must rebuild, not append")
	}
}
