package jobengine

import "fmt"

// Blob store object keys, per §6.
func resultKey(jobID string) string       { return fmt.Sprintf("jobs/%s/result.png", jobID) }
func intermediateKey(jobID string) string { return fmt.Sprintf("jobs/%s/intermediate.png", jobID) }

// PreviewKey builds the cache key for a variation preview.
func PreviewKey(variationID string, symmetry int, gamma float64) string {
	return fmt.Sprintf("previews/%s_%d_%.2f.png", variationID, symmetry, gamma)
}

// Progress KV keys, per §6.
func statusKey(jobID string) string              { return fmt.Sprintf("job:%s:status", jobID) }
func progressKey(jobID string) string            { return fmt.Sprintf("job:%s:progress", jobID) }
func totalKey(jobID string) string               { return fmt.Sprintf("job:%s:total", jobID) }
func intermediateVersionKey(jobID string) string { return fmt.Sprintf("job:%s:intermediate_version", jobID) }
