package extraction

import (
	"bufio"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/memmaker/chunkcull/engine/voxel"
	"github.com/pkg/errors"
)

type Material = uint8

const (
	Air Material = iota
	Stone
	Grass
	Dirt
	Sand
	Snow
	Water Material = 9
)

func IsSolid(m Material) bool {
	return m != Air && m != Water
}

// Volume is a dense block grid. Its origin is the world origin.
type Volume struct {
	SizeX, SizeY, SizeZ int32
	Blocks              []Material
}

/*
	TAG_Compound({
	    "size_x": TAG_Int(),
	    "size_y": TAG_Int(),
	    "size_z": TAG_Int(),
	    "blocks": TAG_Byte_Array(), x fastest, then z, then y
	})
*/
type volumeTag struct {
	SizeX  int32  `nbt:"size_x"`
	SizeY  int32  `nbt:"size_y"`
	SizeZ  int32  `nbt:"size_z"`
	Blocks []byte `nbt:"blocks"`
}

func NewVolume(sizeX, sizeY, sizeZ int32) *Volume {
	return &Volume{
		SizeX:  sizeX,
		SizeY:  sizeY,
		SizeZ:  sizeZ,
		Blocks: make([]Material, sizeX*sizeY*sizeZ),
	}
}

func (v *Volume) index(x, y, z int32) int32 {
	return x + z*v.SizeX + y*v.SizeX*v.SizeZ
}

func (v *Volume) Contains(x, y, z int32) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.SizeX && y < v.SizeY && z < v.SizeZ
}

// Get returns Air outside of the volume.
func (v *Volume) Get(x, y, z int32) Material {
	if !v.Contains(x, y, z) {
		return Air
	}
	return v.Blocks[v.index(x, y, z)]
}

func (v *Volume) Set(x, y, z int32, m Material) {
	if v.Contains(x, y, z) {
		v.Blocks[v.index(x, y, z)] = m
	}
}

// ColumnHeight is one above the highest non-air block, or 0 for an empty column.
func (v *Volume) ColumnHeight(x, z int32) int32 {
	for y := v.SizeY - 1; y >= 0; y-- {
		if v.Get(x, y, z) != Air {
			return y + 1
		}
	}
	return 0
}

func (v *Volume) Size() voxel.Int3 {
	return voxel.Int3{X: v.SizeX, Y: v.SizeY, Z: v.SizeZ}
}

// LoadVolume reads a gzip compressed NBT volume.
func LoadVolume(filename string) (*Volume, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open volume %s", filename)
	}
	defer file.Close()

	reader, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "decompress volume %s", filename)
	}
	defer reader.Close()

	var tag volumeTag
	if _, err = nbt.NewDecoder(reader).Decode(&tag); err != nil {
		return nil, errors.Wrapf(err, "decode volume %s", filename)
	}
	expected := int(tag.SizeX) * int(tag.SizeY) * int(tag.SizeZ)
	if tag.SizeX <= 0 || tag.SizeY <= 0 || tag.SizeZ <= 0 || len(tag.Blocks) != expected {
		return nil, errors.Errorf("volume %s: %d blocks for size %dx%dx%d", filename, len(tag.Blocks), tag.SizeX, tag.SizeY, tag.SizeZ)
	}
	return &Volume{SizeX: tag.SizeX, SizeY: tag.SizeY, SizeZ: tag.SizeZ, Blocks: tag.Blocks}, nil
}

func SaveVolume(filename string, v *Volume) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create volume %s", filename)
	}
	defer file.Close()

	writer := gzip.NewWriter(file)
	tag := volumeTag{SizeX: v.SizeX, SizeY: v.SizeY, SizeZ: v.SizeZ, Blocks: v.Blocks}
	if err = nbt.NewEncoder(writer).Encode(tag, "volume"); err != nil {
		return errors.Wrapf(err, "encode volume %s", filename)
	}
	return errors.Wrapf(writer.Close(), "compress volume %s", filename)
}
