package jobengine

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ifsflame/flameserver/config"
	"github.com/ifsflame/flameserver/store"
)

func testConfig() config.Config {
	return config.Config{
		Samples:                     2000,
		IterPerSample:               50,
		TransformationMinWeight:     0.1,
		TransformationMaxWeight:     1.0,
		MaxThreads:                  1,
		JobTTLSecs:                  3600,
		ProgressSyncIntervalMs:      5,
		IntermediateImageIntervalMs: 5,
		SSEPollIntervalMs:           5,
		PreviewSize:                 32,
		PreviewSamples:              200,
		PreviewIter:                 20,
	}
}

func waitForTerminal(t *testing.T, e *Engine, jobID string, timeout time.Duration) ProgressSnapshot {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		snap := e.Progress(context.Background(), jobID)
		if snap.Status.terminal() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal status within %s", jobID, timeout)
	return ProgressSnapshot{}
}

// failingBlobStore fails every Put whose key matches failOn, succeeding on
// everything else, so S6 can be exercised without killing a real store.
type failingBlobStore struct {
	*store.MemBlobStore
	failOn func(key string) bool
}

func (f *failingBlobStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.failOn(key) {
		return errors.New("store: simulated outage")
	}
	return f.MemBlobStore.Put(ctx, key, body, contentType)
}

func TestJobLifecycle(t *testing.T) {
	Convey("S1: a well-formed job completes and publishes progress==total", t, func() {
		e := New(testConfig(), store.NewMemBlobStore(), store.NewMemProgressStore())
		jobID, err := e.Start(RenderRequest{
			VariationIDs: []string{"linear"},
			Symmetry:     1,
			Gamma:        1.0,
			Width:        64,
			Height:       64,
		})
		So(err, ShouldBeNil)

		snap := waitForTerminal(t, e, jobID, 10*time.Second)
		So(snap.Status, ShouldEqual, StatusCompleted)
		So(snap.Progress, ShouldEqual, snap.Total)
		So(snap.Total, ShouldEqual, 2000)

		result, err := e.Result(context.Background(), jobID)
		So(err, ShouldBeNil)
		So(result.Ready, ShouldBeTrue)
		So(len(result.Bytes), ShouldBeGreaterThan, 0)
	})

	Convey("S2: intermediate snapshot version reaches at least 1 before completion", t, func() {
		cfg := testConfig()
		cfg.Samples = 20000
		cfg.IntermediateImageIntervalMs = 5
		e := New(cfg, store.NewMemBlobStore(), store.NewMemProgressStore())

		jobID, err := e.Start(RenderRequest{
			VariationIDs: []string{"linear", "spherical"},
			Symmetry:     4,
			Gamma:        2.2,
			Width:        128,
			Height:       128,
		})
		So(err, ShouldBeNil)

		sawVersion := false
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			snap := e.Progress(context.Background(), jobID)
			if snap.IntermediateVersion >= 1 {
				sawVersion = true
				break
			}
			if snap.Status.terminal() {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		So(sawVersion, ShouldBeTrue)
		waitForTerminal(t, e, jobID, 10*time.Second)
	})

	Convey("S3: an unknown variation id fails the job and writes no result", t, func() {
		e := New(testConfig(), store.NewMemBlobStore(), store.NewMemProgressStore())
		jobID, err := e.Start(RenderRequest{
			VariationIDs: []string{"nonexistent"},
			Symmetry:     1,
			Gamma:        1.0,
			Width:        32,
			Height:       32,
		})
		So(err, ShouldBeNil)

		snap := waitForTerminal(t, e, jobID, 5*time.Second)
		So(snap.Status, ShouldEqual, StatusFailed)

		result, err := e.Result(context.Background(), jobID)
		So(err, ShouldBeNil)
		So(result.Ready, ShouldBeFalse)
	})

	Convey("S4: an empty variation selection is rejected before any job state is created", t, func() {
		e := New(testConfig(), store.NewMemBlobStore(), store.NewMemProgressStore())
		jobID, err := e.Start(RenderRequest{VariationIDs: nil, Symmetry: 1, Gamma: 1.0, Width: 32, Height: 32})
		So(err, ShouldEqual, ErrEmptySelection)
		So(jobID, ShouldBeEmpty)
	})

	Convey("S6: a blob store outage on the final upload publishes failed, not completed", t, func() {
		mem := store.NewMemBlobStore()
		blob := &failingBlobStore{
			MemBlobStore: mem,
			failOn: func(key string) bool {
				return !isIntermediateKey(key)
			},
		}
		e := New(testConfig(), blob, store.NewMemProgressStore())

		jobID, err := e.Start(RenderRequest{
			VariationIDs: []string{"linear"},
			Symmetry:     1,
			Gamma:        1.0,
			Width:        32,
			Height:       32,
		})
		So(err, ShouldBeNil)

		snap := waitForTerminal(t, e, jobID, 10*time.Second)
		So(snap.Status, ShouldEqual, StatusFailed)

		result, err := e.Result(context.Background(), jobID)
		So(err, ShouldBeNil)
		So(result.Ready, ShouldBeFalse)
	})
}

func isIntermediateKey(key string) bool {
	return len(key) >= 16 && key[len(key)-16:] == "intermediate.png"
}
