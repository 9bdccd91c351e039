package util

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAABBFromMinMaxNormalizes(t *testing.T) {
	box := NewAABBFromMinMax(mgl32.Vec3{4, 0, 8}, mgl32.Vec3{0, 2, 0})
	if box.Min() != (mgl32.Vec3{0, 0, 0}) || box.Max() != (mgl32.Vec3{4, 2, 8}) {
		t.Fatalf("unexpected box %v", box)
	}
	if box.Center() != (mgl32.Vec3{2, 1, 4}) {
		t.Errorf("center = %v", box.Center())
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(nil); ok {
		t.Fatal("empty point set must not produce a box")
	}
	box, ok := BoundingBox([]mgl32.Vec3{{1, 5, -2}, {-3, 0, 4}, {0, 2, 0}})
	if !ok {
		t.Fatal("expected a box")
	}
	if box.Min() != (mgl32.Vec3{-3, 0, -2}) || box.Max() != (mgl32.Vec3{1, 5, 4}) {
		t.Errorf("unexpected box %v", box)
	}
}

func TestAABBContainment(t *testing.T) {
	outer := NewAABBFromMin(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{16, 16, 16})
	inner := NewAABBFromMin(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{4, 4, 4})
	touching := NewAABBFromMin(mgl32.Vec3{16, 0, 0}, mgl32.Vec3{16, 16, 16})
	apart := NewAABBFromMin(mgl32.Vec3{40, 0, 0}, mgl32.Vec3{1, 1, 1})

	if !outer.ContainsBox(inner) || inner.ContainsBox(outer) {
		t.Error("containment is wrong")
	}
	if !outer.Intersects(touching) {
		t.Error("touching boxes intersect")
	}
	if outer.Intersects(apart) {
		t.Error("separated boxes must not intersect")
	}
	if !outer.Contains(mgl32.Vec3{16, 16, 16}) || outer.Contains(mgl32.Vec3{16.5, 0, 0}) {
		t.Error("point containment is wrong")
	}
}

func TestAABBOctants(t *testing.T) {
	box := NewAABBFromMin(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{8, 8, 8})
	for i := 0; i < 8; i++ {
		octant := box.Octant(i)
		if !box.ContainsBox(octant) {
			t.Errorf("octant %d %v escapes its parent", i, octant)
		}
		if octant.Extents() != (mgl32.Vec3{4, 4, 4}) {
			t.Errorf("octant %d has extents %v", i, octant.Extents())
		}
	}
	if box.Octant(7).Min() != (mgl32.Vec3{4, 4, 4}) {
		t.Errorf("octant 7 starts at %v", box.Octant(7).Min())
	}
	if len(box.LineVertices()) != 24 {
		t.Error("a box has twelve edges")
	}
}
