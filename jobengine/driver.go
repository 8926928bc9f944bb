package jobengine

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/ifsflame/flameserver/geom"
	"github.com/ifsflame/flameserver/grid"
	"github.com/ifsflame/flameserver/imaging"
	"github.com/ifsflame/flameserver/renderer"
	"github.com/ifsflame/flameserver/variation"
)

// runDriver is the single logical task coordinating one job's lifecycle: it
// owns monitor spawning and every status publication, and is the only writer
// of this job's KV keys besides the two monitors it spawns.
func (e *Engine) runDriver(ctx context.Context, jobID string, req RenderRequest) {
	ttl := time.Duration(e.Config.JobTTLSecs) * time.Second

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	transformations, err := variation.GenerateTransformationSet(r, req.VariationIDs, variation.AffineSamplerConfig{
		MinWeight: e.Config.TransformationMinWeight,
		MaxWeight: e.Config.TransformationMaxWeight,
	})
	if err != nil {
		log.Printf("job_id=%s failed to generate transformations: %v", jobID, err)
		e.publish(ctx, statusKey(jobID), string(StatusFailed), ttl)
		return
	}

	total := e.Config.Samples
	e.publish(ctx, statusKey(jobID), string(StatusRendering), ttl)
	e.publish(ctx, totalKey(jobID), strconv.Itoa(total), ttl)
	e.publish(ctx, progressKey(jobID), "0", ttl)
	e.publish(ctx, intermediateVersionKey(jobID), "0", ttl)

	g := grid.New(req.Width, req.Height)
	world := geom.DefaultWorld(req.Width, req.Height)
	progress := &renderer.Progress{}

	rdr := &renderer.Renderer{
		Grid:            g,
		World:           world,
		Transformations: transformations,
		Samples:         total,
		IterPerSample:   e.Config.IterPerSample,
		Symmetry:        req.Symmetry,
		Gamma:           req.Gamma,
		MaxThreads:      e.Config.MaxThreads,
		Progress:        progress,
	}

	renderCtx, renderDone := context.WithCancel(ctx)
	var monitors sync.WaitGroup

	monitors.Add(1)
	go func() {
		defer monitors.Done()
		runProgressMonitor(
			renderCtx.Done(),
			progress,
			func(n int64) { e.publish(ctx, progressKey(jobID), strconv.FormatInt(n, 10), ttl) },
			time.Duration(e.Config.ProgressSyncIntervalMs)*time.Millisecond,
		)
	}()

	monitors.Add(1)
	go func() {
		defer monitors.Done()
		runSnapshotMonitor(
			renderCtx.Done(),
			progress,
			func() ([]byte, error) { return imaging.ExportIntermediate(g, req.Gamma) },
			func(png []byte) error { return e.Blob.Put(ctx, intermediateKey(jobID), png, "image/png") },
			func(version int) {
				e.publish(ctx, intermediateVersionKey(jobID), strconv.Itoa(version), ttl)
			},
			time.Duration(e.Config.IntermediateImageIntervalMs)*time.Millisecond,
		)
	}()

	pngBytes, renderErr := runCompute(ctx, rdr, g)

	// Signal the monitors to stop and join them before publishing terminal
	// status, so no further progress writes occur after completed/failed.
	renderDone()
	monitors.Wait()

	if renderErr != nil {
		log.Printf("job_id=%s render failed: %v", jobID, renderErr)
		e.publish(ctx, statusKey(jobID), string(StatusFailed), ttl)
		return
	}

	if err := e.Blob.Put(ctx, resultKey(jobID), pngBytes, "image/png"); err != nil {
		log.Printf("job_id=%s failed to upload result: %v", jobID, err)
		e.publish(ctx, statusKey(jobID), string(StatusFailed), ttl)
		return
	}

	e.publish(ctx, progressKey(jobID), strconv.Itoa(total), ttl)
	e.publish(ctx, statusKey(jobID), string(StatusCompleted), ttl)
	log.Printf("job_id=%s render completed, result uploaded", jobID)
}

// runCompute executes render() then gamma correction then final PNG encode,
// the work the spec assigns to a single long-running compute task.
func runCompute(ctx context.Context, rdr *renderer.Renderer, g *grid.Grid) ([]byte, error) {
	if err := rdr.Render(ctx); err != nil {
		return nil, err
	}
	rdr.ApplyGammaCorrection()
	return imaging.ExportFinal(g)
}

func (e *Engine) publish(ctx context.Context, key, value string, ttl time.Duration) {
	if err := e.KV.Set(ctx, key, value, ttl); err != nil {
		log.Printf("failed to publish %s: %v", key, err)
	}
}
