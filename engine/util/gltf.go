package util

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// SimpleMesh is an indexed triangle list without any material information.
type SimpleMesh struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
}

func (m *SimpleMesh) Bounds() (AABB, bool) {
	return BoundingBox(m.Positions)
}

// LoadSimpleMesh merges all triangle primitives of the first mesh in a glTF/GLB file.
func LoadSimpleMesh(filename string) (*SimpleMesh, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", filename)
	}
	if len(doc.Meshes) == 0 {
		return nil, errors.Errorf("gltf %s contains no meshes", filename)
	}
	return loadMesh(doc, 0)
}

func loadMesh(doc *gltf.Document, meshIndex uint32) (*SimpleMesh, error) {
	mesh := doc.Meshes[meshIndex]
	result := &SimpleMesh{Name: mesh.Name}
	for _, subMesh := range mesh.Primitives {
		if subMesh.Mode != gltf.PrimitiveTriangles {
			LogGlWarning("[LoadGLTF] skipping non-triangle primitive in mesh '%s'", mesh.Name)
			continue
		}
		indexOfPositions, ok := subMesh.Attributes[gltf.POSITION]
		if !ok {
			return nil, errors.Errorf("mesh '%s' has a primitive without positions", mesh.Name)
		}
		var vertBuffer [][3]float32
		vertBuffer, err := modeler.ReadPosition(doc, doc.Accessors[indexOfPositions], vertBuffer)
		if err != nil {
			return nil, errors.Wrap(err, "read positions")
		}

		var indicesBuffer []uint32
		if subMesh.Indices != nil {
			indicesBuffer, err = modeler.ReadIndices(doc, doc.Accessors[*subMesh.Indices], indicesBuffer)
			if err != nil {
				return nil, errors.Wrap(err, "read indices")
			}
		} else {
			indicesBuffer = make([]uint32, len(vertBuffer))
			for i := range indicesBuffer {
				indicesBuffer[i] = uint32(i)
			}
		}

		offset := uint32(len(result.Positions))
		for _, v := range vertBuffer {
			result.Positions = append(result.Positions, mgl32.Vec3{v[0], v[1], v[2]})
		}
		for _, index := range indicesBuffer {
			result.Indices = append(result.Indices, index+offset)
		}
	}
	return result, nil
}

// SaveSimpleMesh writes the mesh as a single-primitive binary glTF.
func SaveSimpleMesh(filename string, mesh *SimpleMesh) error {
	doc := gltf.NewDocument()
	positions := make([][3]float32, len(mesh.Positions))
	for i, p := range mesh.Positions {
		positions[i] = [3]float32{p.X(), p.Y(), p.Z()}
	}
	positionAccessor := modeler.WritePosition(doc, positions)
	indicesAccessor := modeler.WriteIndices(doc, mesh.Indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: mesh.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indicesAccessor),
			Attributes: map[string]uint32{gltf.POSITION: positionAccessor},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: mesh.Name, Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	if err := gltf.SaveBinary(doc, filename); err != nil {
		return errors.Wrapf(err, "save gltf %s", filename)
	}
	return nil
}
