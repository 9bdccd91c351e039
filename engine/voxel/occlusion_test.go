package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func occlusionFixture(t *testing.T, enabled bool) (*OcclusionPipeline, *fakeQueries, *ChunkBuffer) {
	t.Helper()
	queries := newFakeQueries()
	config := DefaultConfig()
	config.OcclusionQuery = enabled
	pool := NewChunkBufferPool(4, queries)
	buffer, err := pool.Admit(cubeMeshes(Int3{0, 0, 0}, 16, false))
	if err != nil {
		t.Fatal(err)
	}
	return NewOcclusionPipeline(queries, config), queries, buffer
}

var outsideCamera = mgl32.Vec3{8, 8, 100}

func TestClassifyDisabledUsesLastFrame(t *testing.T) {
	pipeline, queries, buffer := occlusionFixture(t, false)
	if issued, _ := pipeline.Issue(outsideCamera, []*ChunkBuffer{buffer}); issued != 0 || queries.colorMasked {
		t.Fatal("disabled pipeline must not issue queries")
	}
	for _, occluded := range []bool{false, true} {
		buffer.occludedLastFrame = occluded
		if got := pipeline.Classify(buffer, outsideCamera).Occluded(); got != occluded {
			t.Errorf("classify = %v, want %v", got, occluded)
		}
	}
	if queries.polls != 0 {
		t.Errorf("polled %d times while disabled", queries.polls)
	}
}

func TestClassifyCameraInsideIsVisible(t *testing.T) {
	pipeline, queries, buffer := occlusionFixture(t, true)
	buffer.occludedLastFrame = true
	inside := mgl32.Vec3{8, 8, 8}

	issued, err := pipeline.Issue(inside, []*ChunkBuffer{buffer})
	if err != nil || issued != 0 || len(queries.proxies) != 0 {
		t.Fatalf("issued %d (%v) for a chunk containing the camera", issued, err)
	}
	if pipeline.Classify(buffer, inside) != OcclusionVisible {
		t.Error("chunk containing the camera must be visible")
	}
	if buffer.OccludedLastFrame() || queries.polls != 0 {
		t.Error("camera-inside classification must not touch the query")
	}
}

func TestIssueSkipsPendingQueries(t *testing.T) {
	pipeline, queries, buffer := occlusionFixture(t, true)
	for frame := 0; frame < 3; frame++ {
		if _, err := pipeline.Issue(outsideCamera, []*ChunkBuffer{buffer}); err != nil {
			t.Fatal(err)
		}
		pipeline.Classify(buffer, outsideCamera)
	}
	if queries.begun != 1 {
		t.Errorf("began %d queries, want 1 while the first is pending", queries.begun)
	}
	if buffer.QueryPhase() != QueryPending {
		t.Errorf("phase = %s", buffer.QueryPhase())
	}
	if queries.colorMasked {
		t.Error("color writes left disabled")
	}
}

func TestClassifyResolvesAgainstThreshold(t *testing.T) {
	for _, test := range []struct {
		samples  int
		occluded bool
	}{
		{0, true},
		{19, true},
		{20, false},
		{5000, false},
	} {
		pipeline, queries, buffer := occlusionFixture(t, true)
		pipeline.Issue(outsideCamera, []*ChunkBuffer{buffer})
		queries.results[buffer.OcclusionQueryID()] = test.samples

		state := pipeline.Classify(buffer, outsideCamera)
		if state.Occluded() != test.occluded {
			t.Errorf("%d samples: occluded = %v, want %v", test.samples, state.Occluded(), test.occluded)
		}
		if buffer.PendingResult() || buffer.QueryPhase() != QueryResolved || buffer.OcclusionState() != state {
			t.Errorf("%d samples: phase %s state %s", test.samples, buffer.QueryPhase(), buffer.OcclusionState())
		}
	}
}

func TestClassifyUnavailableFallsBack(t *testing.T) {
	pipeline, _, buffer := occlusionFixture(t, true)
	buffer.occludedLastFrame = true
	pipeline.Issue(outsideCamera, []*ChunkBuffer{buffer})

	if !pipeline.Classify(buffer, outsideCamera).Occluded() {
		t.Error("unavailable result must reuse the previous verdict")
	}
	if !buffer.PendingResult() {
		t.Error("query must stay pending until its result arrives")
	}
}

func TestIssueRestoresColorWritesOnFailure(t *testing.T) {
	queries := newFakeQueries()
	queries.failBeginAt = 1
	config := DefaultConfig()
	config.OcclusionQuery = true
	pool := NewChunkBufferPool(3, queries)
	var candidates []*ChunkBuffer
	for i := int32(0); i < 3; i++ {
		buffer, _ := pool.Admit(cubeMeshes(Int3{i * 16, 0, 0}, 16, false))
		candidates = append(candidates, buffer)
	}

	issued, err := NewOcclusionPipeline(queries, config).Issue(outsideCamera, candidates)
	if err == nil {
		t.Fatal("expected the begin failure to surface")
	}
	if issued != 1 || !candidates[0].PendingResult() || candidates[1].PendingResult() {
		t.Errorf("issued = %d", issued)
	}
	if queries.colorMasked {
		t.Error("color writes not restored after failure")
	}
}
