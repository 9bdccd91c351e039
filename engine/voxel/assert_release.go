//go:build !chunkdebug

package voxel

const assertionsEnabled = false
