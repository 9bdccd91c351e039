package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type FrustumResult int

const (
	Outside FrustumResult = iota
	Inside
	Intersect
)

func (r FrustumResult) String() string {
	switch r {
	case Inside:
		return "Inside"
	case Intersect:
		return "Intersect"
	}
	return "Outside"
}

const (
	planeLeft = iota
	planeRight
	planeBottom
	planeTop
	planeNear
	planeFar
)

// Frustum holds six normalized planes (a,b,c,d) with normals pointing inwards.
// A point p is on the inner side of a plane when a*x + b*y + c*z + d >= 0.
type Frustum struct {
	planes [6]mgl32.Vec4
}

func NewFrustum(projection, view mgl32.Mat4) Frustum {
	return NewFrustumFromMatrix(projection.Mul4(view))
}

// NewFrustumFromMatrix extracts the planes from a combined projection*view matrix (Gribb/Hartmann).
func NewFrustumFromMatrix(clip mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := clip.Row(0), clip.Row(1), clip.Row(2), clip.Row(3)
	var f Frustum
	f.planes[planeLeft] = normalizePlane(r3.Add(r0))
	f.planes[planeRight] = normalizePlane(r3.Sub(r0))
	f.planes[planeBottom] = normalizePlane(r3.Add(r1))
	f.planes[planeTop] = normalizePlane(r3.Sub(r1))
	f.planes[planeNear] = normalizePlane(r3.Add(r2))
	f.planes[planeFar] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(p mgl32.Vec4) mgl32.Vec4 {
	length := float32(math.Sqrt(float64(p.X()*p.X() + p.Y()*p.Y() + p.Z()*p.Z())))
	if length == 0 {
		return p
	}
	return p.Mul(1 / length)
}

func (f Frustum) Planes() [6]mgl32.Vec4 {
	return f.planes
}

func (f Frustum) TestPoint(p mgl32.Vec3) FrustumResult {
	for _, plane := range f.planes {
		if plane.Dot(p.Vec4(1)) < 0 {
			return Outside
		}
	}
	return Inside
}

// TestAABB classifies a box against all six planes using the positive/negative vertex of each plane normal.
func (f Frustum) TestAABB(box AABB) FrustumResult {
	lo, hi := box.Min(), box.Max()
	result := Inside
	for _, plane := range f.planes {
		positive := hi
		negative := lo
		if plane.X() < 0 {
			positive[0], negative[0] = lo.X(), hi.X()
		}
		if plane.Y() < 0 {
			positive[1], negative[1] = lo.Y(), hi.Y()
		}
		if plane.Z() < 0 {
			positive[2], negative[2] = lo.Z(), hi.Z()
		}
		if plane.Dot(positive.Vec4(1)) < 0 {
			return Outside
		}
		if plane.Dot(negative.Vec4(1)) < 0 {
			result = Intersect
		}
	}
	return result
}

func (f Frustum) IsVisible(box AABB) bool {
	return f.TestAABB(box) != Outside
}
