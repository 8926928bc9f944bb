package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ifsflame/flameserver/config"
	"github.com/ifsflame/flameserver/geom"
	"github.com/ifsflame/flameserver/grid"
	"github.com/ifsflame/flameserver/imaging"
	"github.com/ifsflame/flameserver/jobengine"
	"github.com/ifsflame/flameserver/renderer"
	"github.com/ifsflame/flameserver/store"
	"github.com/ifsflame/flameserver/variation"
)

// ErrUnknownVariation mirrors variation.ErrUnknownVariation for callers that
// only have access to the httpapi package.
var ErrUnknownVariation = variation.ErrUnknownVariation

// renderPreview builds (or fetches from cache) a small synthetic PNG for a
// single variation, used by the catalog UI to show what a variation looks
// like before committing to a full render.
func renderPreview(ctx context.Context, blob store.BlobStore, cfg config.Config, variationID string, symmetry int, gamma float64) ([]byte, error) {
	if !variationKnown(variationID) {
		return nil, variation.ErrUnknownVariation
	}

	key := jobengine.PreviewKey(variationID, symmetry, gamma)
	if cached, err := blob.Get(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("httpapi: preview cache lookup: %w", err)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	transformations, err := variation.GenerateTransformationSet(r, []string{variationID}, variation.AffineSamplerConfig{
		MinWeight: cfg.TransformationMinWeight,
		MaxWeight: cfg.TransformationMaxWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("httpapi: build preview transformation: %w", err)
	}

	size := cfg.PreviewSize
	g := grid.New(size, size)
	rdr := &renderer.Renderer{
		Grid:            g,
		World:           geom.DefaultWorld(size, size),
		Transformations: transformations,
		Samples:         cfg.PreviewSamples,
		IterPerSample:   cfg.PreviewIter,
		Symmetry:        symmetry,
		Gamma:           gamma,
		MaxThreads:      cfg.MaxThreads,
		Progress:        &renderer.Progress{},
	}
	if err := rdr.Render(ctx); err != nil {
		return nil, fmt.Errorf("httpapi: render preview: %w", err)
	}
	rdr.ApplyGammaCorrection()

	png, err := imaging.ExportFinal(g)
	if err != nil {
		return nil, fmt.Errorf("httpapi: encode preview: %w", err)
	}

	if err := blob.Put(ctx, key, png, "image/png"); err != nil {
		return nil, fmt.Errorf("httpapi: cache preview: %w", err)
	}
	return png, nil
}

func variationKnown(id string) bool {
	for _, c := range variation.Catalog() {
		if c.ID == id {
			return true
		}
	}
	return false
}
