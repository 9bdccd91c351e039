package extraction

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
)

type Options struct {
	Workers   int
	QueueSize int
	MeshSize  int32
}

func DefaultOptions() Options {
	return Options{
		Workers:   max(runtime.NumCPU()-1, 1),
		QueueSize: 1024,
		MeshSize:  voxel.DefaultMeshSize,
	}
}

// Extractor meshes volume regions on worker goroutines. Finished meshes wait in a bounded queue until
// the render thread pops them. It implements voxel.ExtractionProvider.
type Extractor struct {
	volume  *Volume
	options Options

	jobs    chan voxel.Int3
	results chan *voxel.ChunkMeshes
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	scheduledMu sync.Mutex
	scheduled   map[voxel.Int3]struct{}

	extracted atomic.Int64
	pending   atomic.Int64
}

func NewExtractor(ctx context.Context, volume *Volume, options Options) *Extractor {
	ctx, cancel := context.WithCancel(ctx)
	e := &Extractor{
		volume:    volume,
		options:   options,
		jobs:      make(chan voxel.Int3, options.QueueSize),
		results:   make(chan *voxel.ChunkMeshes, options.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		scheduled: make(map[voxel.Int3]struct{}),
	}
	for i := 0; i < options.Workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	util.LogExtractionInfo("[Extractor] started %d workers for a %s volume", options.Workers, volume.Size())
	return e
}

func (e *Extractor) worker() {
	defer e.wg.Done()
	for {
		select {
		case pos := <-e.jobs:
			meshes := MeshRegion(e.volume, pos, e.options.MeshSize)
			if !meshes.Opaque.IsEmpty() || !meshes.Water.IsEmpty() {
				select {
				case e.results <- meshes:
				case <-e.ctx.Done():
					return
				}
			}
			e.pending.Add(-1)
			e.extracted.Add(1)
		case <-e.ctx.Done():
			return
		}
	}
}

// Pop never blocks.
func (e *Extractor) Pop() (*voxel.ChunkMeshes, bool) {
	select {
	case meshes := <-e.results:
		return meshes, true
	default:
		return nil, false
	}
}

// ScheduleExtraction queues the region unless it was scheduled before and not yet released
// through AllowReExtraction. It returns false if nothing was queued.
func (e *Extractor) ScheduleExtraction(pos voxel.Int3) bool {
	if pos.X < 0 || pos.Y < 0 || pos.Z < 0 || pos.X >= e.volume.SizeX || pos.Y >= e.volume.SizeY || pos.Z >= e.volume.SizeZ {
		return false
	}
	e.scheduledMu.Lock()
	defer e.scheduledMu.Unlock()
	if _, ok := e.scheduled[pos]; ok {
		return false
	}
	e.pending.Add(1)
	select {
	case e.jobs <- pos:
	default:
		e.pending.Add(-1)
		return false
	}
	e.scheduled[pos] = struct{}{}
	return true
}

func (e *Extractor) AllowReExtraction(pos voxel.Int3) {
	e.scheduledMu.Lock()
	delete(e.scheduled, pos)
	e.scheduledMu.Unlock()
}

// ExtractAround schedules every region of the columns within radius regions of center,
// nearest columns first. It returns the number of newly scheduled regions.
func (e *Extractor) ExtractAround(center voxel.Int3, radius int) int {
	size := e.options.MeshSize
	cx := floorDiv(center.X, size)
	cz := floorDiv(center.Z, size)
	scheduled := 0
	for _, column := range SpiralColumns(radius) {
		x := (cx + column[0]) * size
		z := (cz + column[1]) * size
		if !e.volume.Contains(x, 0, z) {
			continue
		}
		for y := int32(0); y < e.volume.SizeY; y += size {
			if e.ScheduleExtraction(voxel.Int3{X: x, Y: y, Z: z}) {
				scheduled++
			}
		}
	}
	if scheduled > 0 {
		util.LogExtractionDebug("[Extractor] scheduled %d regions around %s", scheduled, center)
	}
	return scheduled
}

func (e *Extractor) Stats() voxel.ExtractionStats {
	e.scheduledMu.Lock()
	scheduled := len(e.scheduled)
	e.scheduledMu.Unlock()
	return voxel.ExtractionStats{
		Scheduled: scheduled,
		Extracted: int(e.extracted.Load()),
		Pending:   int(e.pending.Load()),
		Queued:    len(e.results),
	}
}

// Shutdown stops the workers and waits for them. Queued jobs are dropped.
func (e *Extractor) Shutdown() {
	e.cancel()
	e.wg.Wait()
	util.LogExtractionInfo("[Extractor] stopped after %d extractions", e.extracted.Load())
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
