package voxel

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
)

type PlantType struct {
	Name      string
	Mesh      *util.SimpleMesh
	Positions []mgl32.Vec3
}

// PlantDistributor thins the plant candidates of each chunk and spreads the survivors over the
// plant types. All randomness is seeded from the chunk translation so results are stable.
type PlantDistributor struct {
	seed    int64
	density float64
	types   []*PlantType
}

func NewPlantDistributor(seed int64, density float64, types []*PlantType) *PlantDistributor {
	return &PlantDistributor{seed: seed, density: density, types: types}
}

// LoadPlantTypes reads one mesh per file.
func LoadPlantTypes(files []string) ([]*PlantType, error) {
	types := make([]*PlantType, 0, len(files))
	for _, file := range files {
		mesh, err := util.LoadSimpleMesh(file)
		if err != nil {
			return nil, err
		}
		types = append(types, &PlantType{Name: mesh.Name, Mesh: mesh})
	}
	return types, nil
}

func (d *PlantDistributor) Types() []*PlantType {
	return d.types
}

func (d *PlantDistributor) chunkRandom(translation Int3) *rand.Rand {
	return rand.New(rand.NewSource(d.seed + int64(translation.X) + int64(translation.Y) + int64(translation.Z)))
}

// Distribute picks the chunk's instanced positions from its candidates.
func (d *PlantDistributor) Distribute(buffer *ChunkBuffer) {
	buffer.instancedPositions = buffer.instancedPositions[:0]
	if len(buffer.plantCandidates) == 0 || d.density <= 0 {
		return
	}
	rnd := d.chunkRandom(buffer.translation)
	for _, candidate := range buffer.plantCandidates {
		if rnd.Float64() < d.density {
			buffer.instancedPositions = append(buffer.instancedPositions, candidate)
		}
	}
}

// Refill rebuilds the per-type position lists from every active chunk. Each chunk's positions are
// shuffled and split evenly; the first type receives the remainder.
func (d *PlantDistributor) Refill(pool *ChunkBufferPool) {
	if len(d.types) == 0 {
		return
	}
	for _, plantType := range d.types {
		plantType.Positions = plantType.Positions[:0]
	}
	var shuffled []mgl32.Vec3
	pool.ForEachActive(func(buffer *ChunkBuffer) {
		if len(buffer.instancedPositions) == 0 {
			return
		}
		shuffled = append(shuffled[:0], buffer.instancedPositions...)
		rnd := d.chunkRandom(buffer.translation)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		perType := len(shuffled) / len(d.types)
		remainder := len(shuffled) - perType*len(d.types)
		start := 0
		for i, plantType := range d.types {
			count := perType
			if i == 0 {
				count += remainder
			}
			plantType.Positions = append(plantType.Positions, shuffled[start:start+count]...)
			start += count
		}
	})
}
