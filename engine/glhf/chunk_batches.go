package glhf

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
	"github.com/pkg/errors"
)

// ChunkBatchRenderer uploads the merged opaque and water batches and draws each with one call.
// It implements voxel.DrawBackend.
type ChunkBatchRenderer struct {
	chunkShader    *Shader
	lineShader     *Shader
	batches        [2]*meshBuffer
	lines          *meshBuffer
	projectionView mgl32.Mat4
	packed         []uint32
	lineData       []uint32
}

func NewChunkBatchRenderer() (*ChunkBatchRenderer, error) {
	chunkShader, err := NewShader(chunkVertexShaderSource, chunkFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "chunk shader")
	}
	lineShader, err := NewShader(solidVertexShaderSource, solidFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "line shader")
	}
	format := []Attr{{Name: "position", Type: IVec3}, {Name: "info", Type: UInt}}
	r := &ChunkBatchRenderer{
		chunkShader:    chunkShader,
		lineShader:     lineShader,
		lines:          newMeshBuffer(lineShader, []Attr{{Name: "position", Type: Vec3}}, false, gl.LINES),
		projectionView: mgl32.Ident4(),
	}
	r.batches[voxel.OpaqueBatch] = newMeshBuffer(chunkShader, format, true, gl.TRIANGLES)
	r.batches[voxel.WaterBatch] = newMeshBuffer(chunkShader, format, true, gl.TRIANGLES)
	return r, nil
}

func (r *ChunkBatchRenderer) SetProjectionView(projectionView mgl32.Mat4) {
	r.projectionView = projectionView
}

// PackVertex lays a vertex out as four words: x, y, z and the material/ambient occlusion info.
func PackVertex(dst []uint32, v voxel.Vertex) []uint32 {
	info := uint32(v.Material) | uint32(v.AmbientOcclusion)<<8
	return append(dst, uint32(v.Position.X), uint32(v.Position.Y), uint32(v.Position.Z), info)
}

func (r *ChunkBatchRenderer) Upload(kind voxel.BatchKind, vertices []voxel.Vertex, indices []uint32) error {
	r.packed = r.packed[:0]
	for _, v := range vertices {
		r.packed = PackVertex(r.packed, v)
	}
	if err := r.batches[kind].upload(r.packed, indices); err != nil {
		return errors.Wrapf(voxel.ErrUploadFailure, "%s: %v", kind, err)
	}
	return nil
}

func (r *ChunkBatchRenderer) Draw(kind voxel.BatchKind) error {
	r.chunkShader.Begin()
	defer r.chunkShader.End()
	r.chunkShader.SetUniformMat4("projectionView", r.projectionView)
	if kind == voxel.WaterBatch {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		defer func() {
			gl.DepthMask(true)
			gl.Disable(gl.BLEND)
		}()
		r.chunkShader.SetUniformVec4("tint", mgl32.Vec4{0.4, 0.6, 1.0, 0.6})
	} else {
		r.chunkShader.SetUniformVec4("tint", mgl32.Vec4{1, 1, 1, 1})
	}
	return r.batches[kind].draw()
}

func (r *ChunkBatchRenderer) DrawDebugBoxes(boxes []util.AABB) {
	r.lineData = r.lineData[:0]
	for _, box := range boxes {
		for _, p := range box.LineVertices() {
			r.lineData = appendVec3(r.lineData, p)
		}
	}
	if err := r.lines.upload(r.lineData, nil); err != nil {
		util.LogGlError("[ChunkBatchRenderer] debug boxes: %v", err)
		return
	}
	r.lineShader.Begin()
	defer r.lineShader.End()
	r.lineShader.SetUniformMat4("projectionView", r.projectionView)
	r.lineShader.SetUniformMat4("model", mgl32.Ident4())
	r.lineShader.SetUniformVec4("color", mgl32.Vec4{1, 0.2, 0.2, 1})
	if err := r.lines.draw(); err != nil {
		util.LogGlError("[ChunkBatchRenderer] debug boxes: %v", err)
	}
}
