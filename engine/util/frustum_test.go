package util

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	testNearPlane = float32(0.1)
	testFarPlane  = float32(500)
)

// looking from the origin along +X
func newTestFrustum() Frustum {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	projection := mgl32.Perspective(mgl32.DegToRad(45), 0.75, testNearPlane, testFarPlane)
	return NewFrustum(projection, view)
}

func TestFrustumPoints(t *testing.T) {
	f := newTestFrustum()
	tests := []struct {
		name  string
		point mgl32.Vec3
		want  FrustumResult
	}{
		{"origin is behind the near plane", mgl32.Vec3{0, 0, 0}, Outside},
		{"one unit ahead", mgl32.Vec3{1, 0, 0}, Inside},
		{"half way", mgl32.Vec3{testFarPlane / 2, 0, 0}, Inside},
		{"above the eye", mgl32.Vec3{0, 1, 0}, Outside},
		{"below the eye", mgl32.Vec3{0, -1, 0}, Outside},
		{"left of the eye", mgl32.Vec3{0, 0, -1}, Outside},
		{"behind the eye", mgl32.Vec3{-1, 0, 0}, Outside},
		{"beyond the far plane", mgl32.Vec3{testFarPlane + 1, 0, 0}, Outside},
	}
	for _, tt := range tests {
		if got := f.TestPoint(tt.point); got != tt.want {
			t.Errorf("%s: TestPoint(%v) = %v, want %v", tt.name, tt.point, got, tt.want)
		}
	}
}

func TestFrustumBoxes(t *testing.T) {
	f := newTestFrustum()
	half := testFarPlane / 2
	tests := []struct {
		name     string
		min, max mgl32.Vec3
		want     FrustumResult
	}{
		{"small box in the middle", mgl32.Vec3{half - 0.5, -0.5, -0.5}, mgl32.Vec3{half + 0.5, 0.5, 0.5}, Inside},
		{"box behind the camera", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{-0.5, -0.5, -0.5}, Outside},
		{"box around the camera", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{0.5, 0.5, 0.5}, Intersect},
		{"far negative box", mgl32.Vec3{-200, -200, -200}, mgl32.Vec3{-100, -100, -100}, Outside},
		{"big positive box", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{100, 100, 100}, Intersect},
	}
	for _, tt := range tests {
		box := NewAABBFromMinMax(tt.min, tt.max)
		if got := f.TestAABB(box); got != tt.want {
			t.Errorf("%s: TestAABB(%v) = %v, want %v", tt.name, box, got, tt.want)
		}
		if visible := f.IsVisible(box); visible != (tt.want != Outside) {
			t.Errorf("%s: IsVisible = %v", tt.name, visible)
		}
	}
}

func TestFrustumOrtho(t *testing.T) {
	f := NewFrustum(mgl32.Ortho(0, 50, 0, 100, testNearPlane, testFarPlane), mgl32.Ident4())
	inside := NewAABBFromMinMax(mgl32.Vec3{10, 10, -20}, mgl32.Vec3{20, 20, -10})
	outside := NewAABBFromMinMax(mgl32.Vec3{60, 10, -20}, mgl32.Vec3{70, 20, -10})
	crossing := NewAABBFromMinMax(mgl32.Vec3{45, 10, -20}, mgl32.Vec3{55, 20, -10})
	if got := f.TestAABB(inside); got != Inside {
		t.Errorf("inside box: got %v", got)
	}
	if got := f.TestAABB(outside); got != Outside {
		t.Errorf("outside box: got %v", got)
	}
	if got := f.TestAABB(crossing); got != Intersect {
		t.Errorf("crossing box: got %v", got)
	}
}
