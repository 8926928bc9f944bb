// Package jobengine drives the asynchronous render job lifecycle: starting a
// job spawns a driver goroutine that runs the renderer on a worker pool while
// two cooperative monitors publish progress and periodic intermediate PNG
// snapshots, terminating in a published completed or failed status.
package jobengine

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/ifsflame/flameserver/config"
	"github.com/ifsflame/flameserver/store"
)

// ErrEmptySelection is returned by Start when variation_ids is empty.
var ErrEmptySelection = errors.New("jobengine: variation_ids must not be empty")

// Result is the outcome of Engine.Result / Engine.Intermediate.
type Result struct {
	Bytes []byte
	Ready bool
}

// Engine owns the stores and config the driver needs and exposes the four
// operations a caller (typically the HTTP surface) drives a job through.
type Engine struct {
	Config config.Config
	Blob   store.BlobStore
	KV     store.ProgressStore
}

// New builds an Engine over the given config and stores.
func New(cfg config.Config, blob store.BlobStore, kv store.ProgressStore) *Engine {
	return &Engine{Config: cfg, Blob: blob, KV: kv}
}

// Start validates the request, allocates a job id, and spawns the driver
// task in the background. It returns immediately.
func (e *Engine) Start(req RenderRequest) (string, error) {
	if len(req.VariationIDs) == 0 {
		return "", ErrEmptySelection
	}
	jobID := uuid.NewString()
	go e.runDriver(context.Background(), jobID, req)
	return jobID, nil
}

// Progress returns a pure read of the job's external KV state. Missing
// fields default to pending/0/0/0 per spec.
func (e *Engine) Progress(ctx context.Context, jobID string) ProgressSnapshot {
	snap := ProgressSnapshot{Status: StatusPending}

	if v, ok, _ := e.KV.Get(ctx, statusKey(jobID)); ok {
		snap.Status = Status(v)
	}
	if v, ok, _ := e.KV.Get(ctx, progressKey(jobID)); ok {
		if n, err := strconv.Atoi(v); err == nil {
			snap.Progress = n
		}
	}
	if v, ok, _ := e.KV.Get(ctx, totalKey(jobID)); ok {
		if n, err := strconv.Atoi(v); err == nil {
			snap.Total = n
		}
	}
	if v, ok, _ := e.KV.Get(ctx, intermediateVersionKey(jobID)); ok {
		if n, err := strconv.Atoi(v); err == nil {
			snap.IntermediateVersion = n
		}
	}
	return snap
}

// Result fetches the final PNG from blob storage. Absence is reported as a
// not-ready result, not an error.
func (e *Engine) Result(ctx context.Context, jobID string) (Result, error) {
	bytes, err := e.Blob.Get(ctx, resultKey(jobID))
	if errors.Is(err, store.ErrNotFound) {
		return Result{Ready: false}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Bytes: bytes, Ready: true}, nil
}

// Intermediate fetches the latest intermediate PNG snapshot, if any.
func (e *Engine) Intermediate(ctx context.Context, jobID string) (Result, error) {
	bytes, err := e.Blob.Get(ctx, intermediateKey(jobID))
	if errors.Is(err, store.ErrNotFound) {
		return Result{Ready: false}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Bytes: bytes, Ready: true}, nil
}
