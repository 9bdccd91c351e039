package extraction

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/voxel"
)

type face struct {
	normal  voxel.Int3
	corners [4]voxel.Int3
}

// corners wind counter-clockwise seen from outside the block
var faces = [6]face{
	{voxel.Int3{X: 1}, [4]voxel.Int3{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{voxel.Int3{X: -1}, [4]voxel.Int3{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}}},
	{voxel.Int3{Y: 1}, [4]voxel.Int3{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{voxel.Int3{Y: -1}, [4]voxel.Int3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{voxel.Int3{Z: 1}, [4]voxel.Int3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{voxel.Int3{Z: -1}, [4]voxel.Int3{{0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}}},
}

var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// MeshRegion builds the face-culled meshes of the size³ region starting at origin.
// Faces between solid blocks are dropped; water only shows faces towards air.
func MeshRegion(volume *Volume, origin voxel.Int3, size int32) *voxel.ChunkMeshes {
	meshes := &voxel.ChunkMeshes{Translation: origin}
	for y := origin.Y; y < origin.Y+size && y < volume.SizeY; y++ {
		for z := origin.Z; z < origin.Z+size && z < volume.SizeZ; z++ {
			for x := origin.X; x < origin.X+size && x < volume.SizeX; x++ {
				block := volume.Get(x, y, z)
				if block == Air {
					continue
				}
				pos := voxel.Int3{X: x, Y: y, Z: z}
				if block == Water {
					meshWaterBlock(volume, pos, &meshes.Water)
					continue
				}
				meshSolidBlock(volume, pos, block, &meshes.Opaque)
				if block == Grass && volume.Get(x, y+1, z) == Air {
					meshes.PlantPositions = append(meshes.PlantPositions, mgl32.Vec3{float32(x) + 0.5, float32(y + 1), float32(z) + 0.5})
				}
			}
		}
	}
	return meshes
}

func meshSolidBlock(volume *Volume, pos voxel.Int3, block Material, mesh *voxel.Mesh) {
	for _, f := range faces {
		neighbor := pos.Add(f.normal)
		if neighbor.Y < 0 || IsSolid(volume.Get(neighbor.X, neighbor.Y, neighbor.Z)) {
			continue
		}
		appendQuad(volume, pos, f, block, mesh)
	}
}

func meshWaterBlock(volume *Volume, pos voxel.Int3, mesh *voxel.Mesh) {
	for _, f := range faces {
		neighbor := pos.Add(f.normal)
		if neighbor.Y < 0 || volume.Get(neighbor.X, neighbor.Y, neighbor.Z) != Air {
			continue
		}
		appendQuad(volume, pos, f, Water, mesh)
	}
}

func appendQuad(volume *Volume, pos voxel.Int3, f face, material Material, mesh *voxel.Mesh) {
	base := uint32(len(mesh.Vertices))
	for _, corner := range f.corners {
		mesh.Vertices = append(mesh.Vertices, voxel.Vertex{
			Position:         pos.Add(corner),
			Material:         material,
			AmbientOcclusion: ambientOcclusion(volume, pos, f.normal, corner),
		})
	}
	for _, index := range quadIndices {
		mesh.Indices = append(mesh.Indices, base+index)
	}
}

// ambientOcclusion counts the solid blocks touching a face corner in the layer in front of the face (0..3).
func ambientOcclusion(volume *Volume, pos, normal, corner voxel.Int3) uint8 {
	front := pos.Add(normal)
	var tangents [2]voxel.Int3
	n := 0
	axes := [3]voxel.Int3{{X: 1}, {Y: 1}, {Z: 1}}
	cornerAxes := [3]int32{corner.X, corner.Y, corner.Z}
	normalAxes := [3]int32{normal.X, normal.Y, normal.Z}
	for axis := 0; axis < 3; axis++ {
		if normalAxes[axis] != 0 {
			continue
		}
		direction := int32(-1)
		if cornerAxes[axis] == 1 {
			direction = 1
		}
		tangents[n] = axes[axis].Mul(direction)
		n++
	}
	solid := func(p voxel.Int3) bool {
		return IsSolid(volume.Get(p.X, p.Y, p.Z))
	}
	side1 := solid(front.Add(tangents[0]))
	side2 := solid(front.Add(tangents[1]))
	if side1 && side2 {
		return 3
	}
	var count uint8
	for _, occupied := range []bool{side1, side2, solid(front.Add(tangents[0]).Add(tangents[1]))} {
		if occupied {
			count++
		}
	}
	return count
}
