package glhf

import (
	"math"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
	"github.com/pkg/errors"
)

// OcclusionQueries runs GL_SAMPLES_PASSED queries against a unit cube scaled to each chunk's bounds.
// It implements voxel.QueryBackend.
type OcclusionQueries struct {
	shader         *Shader
	cube           *meshBuffer
	projectionView mgl32.Mat4
	active         voxel.QueryID
}

func NewOcclusionQueries() (*OcclusionQueries, error) {
	shader, err := NewShader(solidVertexShaderSource, solidFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "proxy shader")
	}
	cube := newMeshBuffer(shader, []Attr{{Name: "position", Type: Vec3}}, true, gl.TRIANGLES)
	var corners []uint32
	for i := 0; i < 8; i++ {
		corners = appendVec3(corners, mgl32.Vec3{float32(i & 1), float32((i >> 1) & 1), float32((i >> 2) & 1)})
	}
	indices := []uint32{
		0, 2, 3, 0, 3, 1, 4, 5, 7, 4, 7, 6,
		0, 1, 5, 0, 5, 4, 2, 6, 7, 2, 7, 3,
		0, 4, 6, 0, 6, 2, 1, 3, 7, 1, 7, 5,
	}
	if err = cube.upload(corners, indices); err != nil {
		return nil, errors.Wrap(err, "proxy cube")
	}
	return &OcclusionQueries{shader: shader, cube: cube, projectionView: mgl32.Ident4()}, nil
}

func (q *OcclusionQueries) SetProjectionView(projectionView mgl32.Mat4) {
	q.projectionView = projectionView
}

func (q *OcclusionQueries) GenQuery() voxel.QueryID {
	var id uint32
	gl.GenQueries(1, &id)
	if err := checkError("generate query"); err != nil {
		util.LogGlError("[OcclusionQueries] %v", err)
		return voxel.InvalidQueryID
	}
	return voxel.QueryID(id)
}

func (q *OcclusionQueries) DeleteQuery(id voxel.QueryID) {
	name := uint32(id)
	gl.DeleteQueries(1, &name)
}

func (q *OcclusionQueries) BeginQuery(id voxel.QueryID) error {
	if id == voxel.InvalidQueryID {
		return voxel.ErrQueryHandleInvalid
	}
	gl.BeginQuery(gl.SAMPLES_PASSED, uint32(id))
	if err := checkError("begin query"); err != nil {
		return errors.Wrapf(voxel.ErrQueryHandleInvalid, "query %d: %v", id, err)
	}
	q.active = id
	return nil
}

func (q *OcclusionQueries) EndQuery(id voxel.QueryID) error {
	if q.active != id {
		return errors.Errorf("query %d ended while %d is active", id, q.active)
	}
	gl.EndQuery(gl.SAMPLES_PASSED)
	q.active = voxel.InvalidQueryID
	return checkError("end query")
}

func (q *OcclusionQueries) PollResult(id voxel.QueryID) int {
	var available int32
	gl.GetQueryObjectiv(uint32(id), gl.QUERY_RESULT_AVAILABLE, &available)
	if available == gl.FALSE {
		return -1
	}
	var samples uint32
	gl.GetQueryObjectuiv(uint32(id), gl.QUERY_RESULT, &samples)
	if samples > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(samples)
}

// DisableColorWrites also disables depth writes so the proxies only test against the scene.
func (q *OcclusionQueries) DisableColorWrites() func() {
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
	q.shader.Begin()
	q.shader.SetUniformMat4("projectionView", q.projectionView)
	q.shader.SetUniformVec4("color", mgl32.Vec4{1, 1, 1, 1})
	return func() {
		q.shader.End()
		gl.Enable(gl.CULL_FACE)
		gl.DepthMask(true)
		gl.ColorMask(true, true, true, true)
	}
}

func (q *OcclusionQueries) RenderProxy(box util.AABB) {
	model := mgl32.Translate3D(box.Min().Elem()).Mul4(mgl32.Scale3D(box.Max().Sub(box.Min()).Elem()))
	q.shader.SetUniformMat4("model", model)
	if err := q.cube.draw(); err != nil {
		util.LogGlError("[OcclusionQueries] proxy: %v", err)
	}
}

func (q *OcclusionQueries) Flush() {
	gl.Flush()
}

func appendVec3(dst []uint32, v mgl32.Vec3) []uint32 {
	return append(dst, math.Float32bits(v.X()), math.Float32bits(v.Y()), math.Float32bits(v.Z()))
}
