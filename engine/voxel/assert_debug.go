//go:build chunkdebug

package voxel

const assertionsEnabled = true
