package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MinCullingDistance is the default view distance in world units.
	MinCullingDistance = 500
	DefaultMeshSize    = 16
	MaxHeight          = 256
)

type Int3 struct {
	X, Y, Z int32
}

// Int3FromVec3 truncates towards zero like an integer cast.
func Int3FromVec3(v mgl32.Vec3) Int3 {
	return Int3{int32(v.X()), int32(v.Y()), int32(v.Z())}
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(tr Int3) Int3 {
	return Int3{i.X - tr.X, i.Y - tr.Y, i.Z - tr.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// DistanceSquaredXZ ignores the height axis.
func (i Int3) DistanceSquaredXZ(other Int3) int64 {
	dx := int64(i.X) - int64(other.X)
	dz := int64(i.Z) - int64(other.Z)
	return dx*dx + dz*dz
}

func (i Int3) String() string {
	return fmt.Sprintf("%d:%d:%d", i.X, i.Y, i.Z)
}
