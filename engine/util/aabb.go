package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	center  mgl32.Vec3
	extents mgl32.Vec3 // size in respective axis, they extend from the center to the max and min
}

func NewAABB(center, extents mgl32.Vec3) AABB {
	return AABB{
		center:  center,
		extents: extents,
	}
}

func NewAABBFromMin(min, extents mgl32.Vec3) AABB {
	return AABB{
		center:  min.Add(extents.Mul(0.5)),
		extents: extents,
	}
}

// NewAABBFromMinMax swaps components where min > max, so the result is always well formed.
func NewAABBFromMinMax(min, max mgl32.Vec3) AABB {
	lo := mgl32.Vec3{minf(min.X(), max.X()), minf(min.Y(), max.Y()), minf(min.Z(), max.Z())}
	hi := mgl32.Vec3{maxf(min.X(), max.X()), maxf(min.Y(), max.Y()), maxf(min.Z(), max.Z())}
	return NewAABBFromMin(lo, hi.Sub(lo))
}

// BoundingBox returns the smallest box around all points. ok is false for an empty slice.
func BoundingBox(points []mgl32.Vec3) (box AABB, ok bool) {
	if len(points) == 0 {
		return AABB{}, false
	}
	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, p := range points {
		lo = mgl32.Vec3{minf(lo.X(), p.X()), minf(lo.Y(), p.Y()), minf(lo.Z(), p.Z())}
		hi = mgl32.Vec3{maxf(hi.X(), p.X()), maxf(hi.Y(), p.Y()), maxf(hi.Z(), p.Z())}
	}
	return NewAABBFromMinMax(lo, hi), true
}

func (a AABB) Min() mgl32.Vec3 {
	return a.center.Sub(a.extents.Mul(0.5))
}

func (a AABB) Max() mgl32.Vec3 {
	return a.center.Add(a.extents.Mul(0.5))
}

func (a AABB) Center() mgl32.Vec3 {
	return a.center
}

func (a AABB) Extents() mgl32.Vec3 {
	return a.extents
}

func (a AABB) Contains(vec3 mgl32.Vec3) bool {
	minVal := a.Min()
	maxVal := a.Max()
	return vec3.X() >= minVal.X() && vec3.X() <= maxVal.X() &&
		vec3.Y() >= minVal.Y() && vec3.Y() <= maxVal.Y() &&
		vec3.Z() >= minVal.Z() && vec3.Z() <= maxVal.Z()
}

// ContainsBox reports whether other lies completely inside a. Touching faces count as inside.
func (a AABB) ContainsBox(other AABB) bool {
	return a.Contains(other.Min()) && a.Contains(other.Max())
}

func (a AABB) Intersects(other AABB) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := other.Min(), other.Max()
	return aMin.X() <= bMax.X() && aMax.X() >= bMin.X() &&
		aMin.Y() <= bMax.Y() && aMax.Y() >= bMin.Y() &&
		aMin.Z() <= bMax.Z() && aMax.Z() >= bMin.Z()
}

// Octant returns the i-th of the eight equally sized sub-boxes. Bit 0 selects +X, bit 1 +Y, bit 2 +Z.
func (a AABB) Octant(i int) AABB {
	half := a.extents.Mul(0.5)
	min := a.Min()
	if i&1 != 0 {
		min[0] += half.X()
	}
	if i&2 != 0 {
		min[1] += half.Y()
	}
	if i&4 != 0 {
		min[2] += half.Z()
	}
	return NewAABBFromMin(min, half)
}

// LineVertices returns the twelve box edges as 24 line-list points (top, bottom, sides).
func (a AABB) LineVertices() []mgl32.Vec3 {
	lo, hi := a.Min(), a.Max()
	return []mgl32.Vec3{
		// top
		{lo.X(), hi.Y(), lo.Z()}, {hi.X(), hi.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()}, {hi.X(), hi.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()}, {lo.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()}, {lo.X(), hi.Y(), lo.Z()},

		// bottom
		{lo.X(), lo.Y(), lo.Z()}, {hi.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()}, {hi.X(), lo.Y(), hi.Z()},
		{hi.X(), lo.Y(), hi.Z()}, {lo.X(), lo.Y(), hi.Z()},
		{lo.X(), lo.Y(), hi.Z()}, {lo.X(), lo.Y(), lo.Z()},

		// sides
		{lo.X(), lo.Y(), lo.Z()}, {lo.X(), hi.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()}, {hi.X(), hi.Y(), lo.Z()},
		{hi.X(), lo.Y(), hi.Z()}, {hi.X(), hi.Y(), hi.Z()},
		{lo.X(), lo.Y(), hi.Z()}, {lo.X(), hi.Y(), hi.Z()},
	}
}

func (a AABB) String() string {
	lo, hi := a.Min(), a.Max()
	return fmt.Sprintf("AABB(%0.1f,%0.1f,%0.1f)-(%0.1f,%0.1f,%0.1f)", lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
