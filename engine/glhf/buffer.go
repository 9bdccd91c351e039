package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// AttrType is the type of one vertex attribute.
type AttrType int

const (
	Vec3 AttrType = iota
	IVec3
	UInt
)

func (a AttrType) components() int32 {
	if a == UInt {
		return 1
	}
	return 3
}

// Attr is a named vertex attribute of a Shader.
type Attr struct {
	Name string
	Type AttrType
}

// meshBuffer is a VAO with one vertex buffer and an optional index buffer.
// Every attribute occupies four-byte components.
type meshBuffer struct {
	vao, vbo, ibo binder
	stride        int32
	count         int32
	indexed       bool
	primitiveType uint32
}

func newMeshBuffer(shader *Shader, format []Attr, indexed bool, primitiveType uint32) *meshBuffer {
	mb := &meshBuffer{
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		ibo: binder{
			restoreLoc: gl.ELEMENT_ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, obj)
			},
		},
		indexed:       indexed,
		primitiveType: primitiveType,
	}
	for _, attr := range format {
		mb.stride += attr.Type.components() * SizeOfUint32
	}

	gl.GenVertexArrays(1, &mb.vao.obj)
	gl.GenBuffers(1, &mb.vbo.obj)
	if indexed {
		gl.GenBuffers(1, &mb.ibo.obj)
	}

	mb.vao.bind()
	mb.vbo.bind()
	offset := uintptr(0)
	for _, attr := range format {
		loc := shader.AttribLocation(attr.Name)
		switch attr.Type {
		case Vec3:
			gl.VertexAttribPointerWithOffset(loc, attr.Type.components(), gl.FLOAT, false, mb.stride, offset)
		case IVec3:
			gl.VertexAttribIPointerWithOffset(loc, attr.Type.components(), gl.INT, mb.stride, offset)
		case UInt:
			gl.VertexAttribIPointerWithOffset(loc, attr.Type.components(), gl.UNSIGNED_INT, mb.stride, offset)
		}
		gl.EnableVertexAttribArray(loc)
		offset += uintptr(attr.Type.components() * SizeOfUint32)
	}
	if indexed {
		// the element buffer binding is part of the VAO state
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ibo.obj)
	}
	mb.vao.restore()
	mb.vbo.restore()

	runtime.SetFinalizer(mb, (*meshBuffer).delete)
	return mb
}

func (mb *meshBuffer) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteVertexArrays(1, &mb.vao.obj)
		gl.DeleteBuffers(1, &mb.vbo.obj)
		if mb.indexed {
			gl.DeleteBuffers(1, &mb.ibo.obj)
		}
	})
}

// upload replaces the buffer contents. vertexData holds raw four-byte words.
func (mb *meshBuffer) upload(vertexData []uint32, indices []uint32) error {
	if len(vertexData) == 0 {
		mb.count = 0
		return nil
	}
	mb.vao.bind()
	defer mb.vao.restore()

	mb.vbo.bind()
	gl.BufferData(gl.ARRAY_BUFFER, len(vertexData)*SizeOfUint32, gl.Ptr(vertexData), gl.STREAM_DRAW)
	mb.vbo.restore()
	if err := checkError("upload vertex buffer"); err != nil {
		return err
	}
	if mb.indexed {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*SizeOfUint32, gl.Ptr(indices), gl.STREAM_DRAW)
		if err := checkError("upload index buffer"); err != nil {
			return err
		}
		mb.count = int32(len(indices))
		return nil
	}
	mb.count = int32(len(vertexData)*SizeOfUint32) / mb.stride
	return nil
}

func (mb *meshBuffer) draw() error {
	if mb.count == 0 {
		return nil
	}
	mb.vao.bind()
	defer mb.vao.restore()
	if mb.indexed {
		gl.DrawElements(mb.primitiveType, mb.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(mb.primitiveType, 0, mb.count)
	}
	return errors.WithMessage(checkError("draw"), "mesh buffer")
}
