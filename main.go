package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/faiface/mainthread"
	"github.com/memmaker/chunkcull/engine/extraction"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
)

func main() {
	var (
		configFile = flag.String("config", "chunkcull.json", "renderer config (.json or .yaml)")
		volumeFile = flag.String("volume", "", "gzip NBT volume to view; generated terrain when empty")
		saveFile   = flag.String("save-volume", "", "write the generated volume to this file")
		worldSize  = flag.Int("size", 512, "horizontal size of generated terrain")
		seed       = flag.Int64("seed", 1337, "terrain seed")
		headless   = flag.Bool("headless", false, "run the culler without a window and report statistics")
		frames     = flag.Int("frames", 600, "frames to simulate in headless mode")
		mapFile    = flag.String("map", "", "headless: write a top-down visibility map PNG")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()
	if *verbose {
		util.GLOBAL_LOG_LEVEL = util.LogLevelDebug
	}

	config, err := voxel.LoadConfig(*configFile)
	if err != nil {
		util.LogSystemError("[Main] %v, using defaults", err)
	}

	volume, err := loadVolume(*volumeFile, int32(*worldSize), *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load volume:", err)
		os.Exit(1)
	}
	if *saveFile != "" {
		if err = extraction.SaveVolume(*saveFile, volume); err != nil {
			fmt.Fprintln(os.Stderr, "save volume:", err)
			os.Exit(1)
		}
	}

	plantTypes, err := voxel.LoadPlantTypes(config.PlantMeshes)
	if err != nil {
		util.LogSystemError("[Main] plant meshes: %v", err)
	}
	plants := voxel.NewPlantDistributor(config.PlantSeed, config.PlantDensity, plantTypes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	options := extraction.DefaultOptions()
	options.MeshSize = int32(config.MeshSize)
	extractor := extraction.NewExtractor(ctx, volume, options)
	defer extractor.Shutdown()

	if *headless {
		if err = runHeadless(ctx, config, volume, extractor, plants, *frames, *mapFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	mainthread.Run(func() {
		viewer, err := NewChunkViewer("chunkcull", 1280, 720, config, volume, extractor, plants)
		if err != nil {
			fmt.Fprintln(os.Stderr, "start viewer:", err)
			return
		}
		viewer.Run()
	})
}

func loadVolume(filename string, size int32, seed int64) (*extraction.Volume, error) {
	if filename != "" {
		return extraction.LoadVolume(filename)
	}
	settings := extraction.DefaultTerrainSettings()
	settings.Seed = seed
	util.LogSystemInfo("[Main] generating %dx%d terrain with seed %d", size, size, seed)
	return extraction.GenerateTerrain(size, voxel.MaxHeight/2, size, settings), nil
}
