// Package glhf holds the OpenGL backends of the chunk renderer. Every function in this package must
// be called on the thread owning the GL context; main wraps frames in mainthread.Call.
package glhf

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
)

const SizeOfUint32 = 4

var getInteger = gl.GetIntegerv

// Init loads the GL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "initialize OpenGL")
	}
	util.LogGlInfo("[glhf] OpenGL %s, GLSL %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))
	return nil
}

// checkError drains the GL error flags and reports the first one.
func checkError(operation string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return errors.Errorf("%s: GL error 0x%x", operation, code)
}
