package extraction

import (
	"github.com/ojrac/opensimplex-go"
)

type TerrainSettings struct {
	Seed        int64
	SeaLevel    int32
	BaseHeight  int32
	Amplitude   float32
	Scale       float32
	Octaves     int
	Lacunarity  float32
	Persistence float32
}

func DefaultTerrainSettings() TerrainSettings {
	return TerrainSettings{
		Seed:        1337,
		SeaLevel:    28,
		BaseHeight:  32,
		Amplitude:   24,
		Scale:       96,
		Octaves:     4,
		Lacunarity:  2,
		Persistence: 0.5,
	}
}

// GenerateTerrain fills a volume from fractal simplex noise with grass on top, water up to sea level
// and snow on peaks.
func GenerateTerrain(sizeX, sizeY, sizeZ int32, settings TerrainSettings) *Volume {
	noise := opensimplex.New32(settings.Seed)
	volume := NewVolume(sizeX, sizeY, sizeZ)
	for x := int32(0); x < sizeX; x++ {
		for z := int32(0); z < sizeZ; z++ {
			height := settings.BaseHeight + fractalNoise(noise, x, z, settings)
			if height < 1 {
				height = 1
			}
			if height > sizeY {
				height = sizeY
			}
			for y := int32(0); y < height; y++ {
				volume.Set(x, y, z, surfaceMaterial(y, height, settings.SeaLevel, sizeY))
			}
			for y := height; y < settings.SeaLevel && y < sizeY; y++ {
				volume.Set(x, y, z, Water)
			}
		}
	}
	return volume
}

func surfaceMaterial(y, height, seaLevel, sizeY int32) Material {
	switch {
	case y < height-4:
		return Stone
	case y < height-1:
		return Dirt
	case height <= seaLevel+1:
		return Sand
	case height > sizeY*3/4:
		return Snow
	}
	return Grass
}

func fractalNoise(noise opensimplex.Noise32, x, z int32, settings TerrainSettings) int32 {
	x1, z1 := float32(x)/settings.Scale, float32(z)/settings.Scale
	amplitude := settings.Amplitude
	var value float32
	for i := 0; i < settings.Octaves; i++ {
		value += noise.Eval2(x1, z1) * amplitude
		x1 *= settings.Lacunarity
		z1 *= settings.Lacunarity
		amplitude *= settings.Persistence
	}
	return int32(value)
}
