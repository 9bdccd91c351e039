package voxel

import (
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

var (
	ErrPoolExhausted      = errors.New("chunk buffer pool exhausted")
	ErrIndexRejected      = errors.New("chunk bounds outside of the spatial index volume")
	ErrQueryHandleInvalid = errors.New("occlusion query handle invalid")
	ErrUploadFailure      = errors.New("gpu buffer upload failed")
)

// assertf panics in builds with the chunkdebug tag and logs otherwise. It returns cond.
func assertf(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	if assertionsEnabled {
		panic(errors.Errorf(format, args...))
	}
	util.LogVoxelError("[Assert] "+format, args...)
	return false
}
