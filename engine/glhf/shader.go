package glhf

import (
	"runtime"
	"strings"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Shader is a linked vertex+fragment program with cached uniform locations.
type Shader struct {
	program  binder
	uniforms map[string]int32
}

func NewShader(vertexSource, fragmentSource string) (*Shader, error) {
	vertex, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	defer gl.DeleteShader(vertex)
	fragment, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return nil, errors.Wrap(err, "fragment shader")
	}
	defer gl.DeleteShader(fragment)

	s := &Shader{
		program: binder{
			restoreLoc: gl.CURRENT_PROGRAM,
			bindFunc: func(obj uint32) {
				gl.UseProgram(obj)
			},
		},
		uniforms: make(map[string]int32),
	}
	s.program.obj = gl.CreateProgram()
	gl.AttachShader(s.program.obj, vertex)
	gl.AttachShader(s.program.obj, fragment)
	gl.LinkProgram(s.program.obj)

	var status int32
	gl.GetProgramiv(s.program.obj, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(s.program.obj, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(s.program.obj, logLength, nil, gl.Str(log))
		gl.DeleteProgram(s.program.obj)
		return nil, errors.Errorf("link shader program: %s", strings.TrimRight(log, "\x00"))
	}
	runtime.SetFinalizer(s, (*Shader).delete)
	return s, nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	sources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, sources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (s *Shader) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteProgram(s.program.obj)
	})
}

func (s *Shader) ID() uint32 {
	return s.program.obj
}

func (s *Shader) AttribLocation(name string) uint32 {
	return uint32(gl.GetAttribLocation(s.program.obj, gl.Str(name+"\x00")))
}

func (s *Shader) uniformLocation(name string) int32 {
	loc, ok := s.uniforms[name]
	if !ok {
		loc = gl.GetUniformLocation(s.program.obj, gl.Str(name+"\x00"))
		s.uniforms[name] = loc
	}
	return loc
}

// SetUniformMat4 must be called between Begin and End.
func (s *Shader) SetUniformMat4(name string, value mgl32.Mat4) {
	gl.UniformMatrix4fv(s.uniformLocation(name), 1, false, &value[0])
}

func (s *Shader) SetUniformVec4(name string, value mgl32.Vec4) {
	gl.Uniform4fv(s.uniformLocation(name), 1, &value[0])
}

func (s *Shader) Begin() {
	s.program.bind()
}

func (s *Shader) End() {
	s.program.restore()
}
