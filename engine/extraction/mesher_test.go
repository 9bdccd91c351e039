package extraction

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/voxel"
)

func TestMeshSingleBlock(t *testing.T) {
	volume := NewVolume(16, 16, 16)
	volume.Set(3, 4, 5, Stone)
	meshes := MeshRegion(volume, voxel.Int3{}, 16)

	if len(meshes.Opaque.Vertices) != 24 || len(meshes.Opaque.Indices) != 36 {
		t.Fatalf("%d vertices, %d indices", len(meshes.Opaque.Vertices), len(meshes.Opaque.Indices))
	}
	for _, v := range meshes.Opaque.Vertices {
		p := v.Position
		if p.X < 3 || p.X > 4 || p.Y < 4 || p.Y > 5 || p.Z < 5 || p.Z > 6 {
			t.Fatalf("vertex %s outside the block", p)
		}
		if v.AmbientOcclusion != 0 {
			t.Errorf("isolated block has ambient occlusion %d", v.AmbientOcclusion)
		}
	}
	if !meshes.Water.IsEmpty() || len(meshes.PlantPositions) != 0 {
		t.Error("unexpected water or plants")
	}
}

func TestMeshCullsSharedFaces(t *testing.T) {
	volume := NewVolume(16, 16, 16)
	volume.Set(3, 4, 5, Stone)
	volume.Set(4, 4, 5, Stone)
	meshes := MeshRegion(volume, voxel.Int3{}, 16)
	if got := meshes.Opaque.TriangleCount(); got != 20 {
		t.Errorf("triangles = %d, want 20", got)
	}
}

func TestMeshWindingFacesOutwards(t *testing.T) {
	volume := NewVolume(4, 4, 4)
	volume.Set(1, 1, 1, Stone)
	meshes := MeshRegion(volume, voxel.Int3{}, 4)
	center := mgl32.Vec3{1.5, 1.5, 1.5}
	vertices := meshes.Opaque.Vertices
	for i := 0; i < len(meshes.Opaque.Indices); i += 3 {
		a := vertices[meshes.Opaque.Indices[i]].Position.ToVec3()
		b := vertices[meshes.Opaque.Indices[i+1]].Position.ToVec3()
		c := vertices[meshes.Opaque.Indices[i+2]].Position.ToVec3()
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Dot(a.Sub(center)) <= 0 {
			t.Fatalf("triangle %d faces inwards", i/3)
		}
	}
}

func TestMeshWaterAndPlants(t *testing.T) {
	volume := NewVolume(16, 16, 16)
	volume.Set(0, 0, 0, Grass)
	volume.Set(1, 0, 0, Water)
	volume.Set(2, 0, 0, Grass)
	volume.Set(2, 1, 0, Stone)
	meshes := MeshRegion(volume, voxel.Int3{}, 16)

	if len(meshes.PlantPositions) != 1 || meshes.PlantPositions[0] != (mgl32.Vec3{0.5, 1, 0.5}) {
		t.Errorf("plants = %v", meshes.PlantPositions)
	}
	// water borders two solid blocks and the volume floor; it shows top, north and south
	if got := meshes.Water.TriangleCount(); got != 6 {
		t.Errorf("water triangles = %d, want 6", got)
	}
	for _, v := range meshes.Water.Vertices {
		if v.Material != Water {
			t.Fatalf("water vertex with material %d", v.Material)
		}
	}
}

func TestMeshRegionBounds(t *testing.T) {
	volume := GenerateTerrain(32, 64, 32, DefaultTerrainSettings())
	origin := voxel.Int3{X: 16, Y: 16, Z: 0}
	meshes := MeshRegion(volume, origin, 16)
	if meshes.Translation != origin {
		t.Fatalf("translation = %s", meshes.Translation)
	}
	for _, v := range append(meshes.Opaque.Vertices, meshes.Water.Vertices...) {
		rel := v.Position.Sub(origin)
		if rel.X < 0 || rel.X > 16 || rel.Y < 0 || rel.Y > 16 || rel.Z < 0 || rel.Z > 16 {
			t.Fatalf("vertex %s escapes the region", v.Position)
		}
	}
}

func TestAmbientOcclusionInCorner(t *testing.T) {
	volume := NewVolume(4, 4, 4)
	volume.Set(1, 0, 1, Stone)
	volume.Set(2, 1, 1, Stone)
	volume.Set(1, 1, 2, Stone)
	// top face corner (1,1,1)+(1,1,1) touches both walls
	if ao := ambientOcclusion(volume, voxel.Int3{X: 1, Z: 1}, voxel.Int3{Y: 1}, voxel.Int3{X: 1, Y: 1, Z: 1}); ao != 3 {
		t.Errorf("ao = %d, want 3", ao)
	}
	if ao := ambientOcclusion(volume, voxel.Int3{X: 1, Z: 1}, voxel.Int3{Y: 1}, voxel.Int3{Y: 1}); ao != 0 {
		t.Errorf("ao = %d, want 0", ao)
	}
}
