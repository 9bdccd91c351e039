package extraction

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/voxel"
)

// RayHit describes the first block a ray stopped at.
type RayHit struct {
	Hit      bool
	Distance float64
	Block    voxel.Int3
	Previous voxel.Int3
}

// Raycast walks the grid cells along the ray from start for at most maxDistance and
// stops at the first cell for which stop returns true.
func Raycast(start, direction mgl32.Vec3, maxDistance float64, stop func(x, y, z int32) bool) RayHit {
	// adapted from: https://github.com/fenomas/fast-voxel-raycast/blob/master/index.js
	if direction.Len() == 0 {
		return RayHit{}
	}
	dir := direction.Normalize()
	ix := int32(math.Floor(float64(start.X())))
	iy := int32(math.Floor(float64(start.Y())))
	iz := int32(math.Floor(float64(start.Z())))

	step := [3]int32{-1, -1, -1}
	var tDelta, tMax [3]float64
	cell := [3]int32{ix, iy, iz}
	for axis := 0; axis < 3; axis++ {
		if dir[axis] > 0 {
			step[axis] = 1
		}
		tDelta[axis] = math.Abs(1.0 / float64(dir[axis]))
		dist := float64(start[axis]) - float64(cell[axis])
		if step[axis] > 0 {
			dist = float64(cell[axis]+1) - float64(start[axis])
		}
		tMax[axis] = math.Inf(1)
		if !math.IsInf(tDelta[axis], 1) {
			tMax[axis] = tDelta[axis] * dist
		}
	}

	t := 0.0
	previous := voxel.Int3{X: ix, Y: iy, Z: iz}
	for t <= maxDistance {
		if stop(ix, iy, iz) {
			return RayHit{Hit: true, Distance: t, Block: voxel.Int3{X: ix, Y: iy, Z: iz}, Previous: previous}
		}
		previous = voxel.Int3{X: ix, Y: iy, Z: iz}
		axis := 2
		if tMax[0] < tMax[1] {
			if tMax[0] < tMax[2] {
				axis = 0
			}
		} else if tMax[1] < tMax[2] {
			axis = 1
		}
		switch axis {
		case 0:
			ix += step[0]
		case 1:
			iy += step[1]
		default:
			iz += step[2]
		}
		t = tMax[axis]
		tMax[axis] += tDelta[axis]
	}
	return RayHit{}
}

// LineOfSight reports whether no solid block lies between from and the last block before to.
func (v *Volume) LineOfSight(from, to mgl32.Vec3) bool {
	ray := to.Sub(from)
	length := float64(ray.Len()) - 1
	if length <= 0 {
		return true
	}
	hit := Raycast(from, ray, length, func(x, y, z int32) bool {
		return IsSolid(v.Get(x, y, z))
	})
	return !hit.Hit
}
