package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
)

// Vertex positions are in world space.
type Vertex struct {
	Position         Int3
	Material         uint8
	AmbientOcclusion uint8
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ChunkMeshes is one finished extraction result, keyed by the region origin.
type ChunkMeshes struct {
	Translation Int3
	Opaque      Mesh
	Water       Mesh
	// PlantPositions are candidate vegetation spots on top of the extracted surface.
	PlantPositions []mgl32.Vec3
}

// boundsOf spans all vertex positions of both meshes. An empty chunk collapses to its translation.
func (c *ChunkMeshes) boundsOf() util.AABB {
	first := true
	var lo, hi Int3
	visit := func(vertices []Vertex) {
		for _, v := range vertices {
			p := v.Position
			if first {
				lo, hi = p, p
				first = false
				continue
			}
			lo = Int3{min32(lo.X, p.X), min32(lo.Y, p.Y), min32(lo.Z, p.Z)}
			hi = Int3{max32(hi.X, p.X), max32(hi.Y, p.Y), max32(hi.Z, p.Z)}
		}
	}
	visit(c.Opaque.Vertices)
	visit(c.Water.Vertices)
	if first {
		return util.NewAABBFromMinMax(c.Translation.ToVec3(), c.Translation.ToVec3())
	}
	return util.NewAABBFromMinMax(lo.ToVec3(), hi.ToVec3())
}

// appendMesh copies the mesh into the merged arrays and rebases its indices by offset.
// It returns the number of vertices added.
func appendMesh(offset uint32, mesh Mesh, vertices *[]Vertex, indices *[]uint32) uint32 {
	for _, index := range mesh.Indices {
		*indices = append(*indices, index+offset)
	}
	*vertices = append(*vertices, mesh.Vertices...)
	return uint32(len(mesh.Vertices))
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
