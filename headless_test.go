package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/extraction"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
)

func floorVolume(sizeX, sizeY, sizeZ, height int32) *extraction.Volume {
	volume := extraction.NewVolume(sizeX, sizeY, sizeZ)
	for x := int32(0); x < sizeX; x++ {
		for z := int32(0); z < sizeZ; z++ {
			for y := int32(0); y < height; y++ {
				volume.Set(x, y, z, extraction.Stone)
			}
		}
	}
	return volume
}

func TestRaycastOcclusionWallHidesChunk(t *testing.T) {
	volume := floorVolume(64, 32, 64, 2)
	for x := int32(0); x < 64; x++ {
		for y := int32(2); y < 30; y++ {
			volume.Set(x, y, 20, extraction.Stone)
		}
	}
	queries := newRaycastOcclusion(volume)
	queries.beginFrame(mgl32.Vec3{32, 4, 4})

	behindWall := util.NewAABBFromMinMax(mgl32.Vec3{24, 0, 32}, mgl32.Vec3{40, 4, 48})
	inFront := util.NewAABBFromMinMax(mgl32.Vec3{24, 0, 8}, mgl32.Vec3{40, 2, 16})
	if samples := queries.visibleSamples(behindWall); samples != 0 {
		t.Errorf("chunk behind the wall has %d visible samples", samples)
	}
	if samples := queries.visibleSamples(inFront); samples == 0 {
		t.Error("chunk in front of the wall is hidden")
	}
}

func TestRaycastOcclusionResultArrivesNextFrame(t *testing.T) {
	queries := newRaycastOcclusion(floorVolume(32, 16, 32, 1))
	queries.beginFrame(mgl32.Vec3{16, 8, 16})
	id := queries.GenQuery()
	if err := queries.BeginQuery(id); err != nil {
		t.Fatal(err)
	}
	queries.RenderProxy(util.NewAABBFromMinMax(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{16, 1, 16}))
	if err := queries.EndQuery(id); err != nil {
		t.Fatal(err)
	}
	if got := queries.PollResult(id); got != -1 {
		t.Fatalf("result available in the issuing frame: %d", got)
	}
	queries.beginFrame(mgl32.Vec3{16, 8, 16})
	if got := queries.PollResult(id); got <= 0 {
		t.Fatalf("expected visible samples one frame later, got %d", got)
	}
	queries.DeleteQuery(id)
	if got := queries.PollResult(id); got != -1 {
		t.Fatalf("deleted query still reports %d", got)
	}
}

func TestRaycastOcclusionRejectsMismatchedEnd(t *testing.T) {
	queries := newRaycastOcclusion(floorVolume(16, 16, 16, 1))
	if err := queries.BeginQuery(voxel.InvalidQueryID); err == nil {
		t.Fatal("began an invalid query")
	}
	first, second := queries.GenQuery(), queries.GenQuery()
	_ = queries.BeginQuery(first)
	if err := queries.EndQuery(second); err == nil {
		t.Fatal("ended a query that was not active")
	}
}

func TestStatusLineTruncatesToWidth(t *testing.T) {
	status := statusLine{width: 10}
	if got := status.fit("0123456789abcdef"); got != "012345678" {
		t.Errorf("fit = %q", got)
	}
	if got := status.fit("short"); got != "short" {
		t.Errorf("fit = %q", got)
	}
}

func TestRunHeadlessWritesVisibilityMap(t *testing.T) {
	volume := floorVolume(64, 32, 64, 3)
	config := voxel.DefaultConfig()
	config.ViewDistance = 64
	config.PoolCapacity = 64
	config.MaxAdmissionsPerFrame = 4

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	options := extraction.DefaultOptions()
	options.MeshSize = int32(config.MeshSize)
	extractor := extraction.NewExtractor(ctx, volume, options)
	defer extractor.Shutdown()

	mapFile := filepath.Join(t.TempDir(), "map.png")
	plants := voxel.NewPlantDistributor(config.PlantSeed, config.PlantDensity, nil)
	if err := runHeadless(ctx, config, volume, extractor, plants, 10, mapFile); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(mapFile)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Errorf("map is %v, want one pixel per column", bounds)
	}
}
