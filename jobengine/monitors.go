package jobengine

import (
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/ifsflame/flameserver/renderer"
)

// runProgressMonitor ticks every interval, publishing the shared counter's
// current value, until done fires. A tick that races the compute task's
// final increment is harmless: progress is monotonic and the driver
// publishes progress=total itself once uploading succeeds.
func runProgressMonitor(done <-chan struct{}, progress *renderer.Progress, publish func(n int64), interval time.Duration) {
	for range channerics.NewTicker(done, interval) {
		publish(progress.Load())
	}
}

// snapshotFunc builds an intermediate PNG from the live grid; the driver
// passes a closure over imaging.ExportIntermediate.
type snapshotFunc func() ([]byte, error)

// runSnapshotMonitor ticks every interval; if the shared counter advanced
// since the last tick, it builds an intermediate PNG and hands it to upload.
// On a successful upload it calls onVersion with the new version number.
// Missed intervals (a slow encode) are acceptable: a tick is skipped, not
// queued, by construction — each iteration only runs after the previous one
// returns.
func runSnapshotMonitor(
	done <-chan struct{},
	progress *renderer.Progress,
	snapshot snapshotFunc,
	upload func(png []byte) error,
	onVersion func(version int),
	interval time.Duration,
) {
	var lastProgress int64
	version := 0

	for range channerics.NewTicker(done, interval) {
		current := progress.Load()
		if current == lastProgress {
			continue
		}
		lastProgress = current

		png, err := snapshot()
		if err != nil {
			continue // PixelReadFailed/EncodeFailed: skip this tick silently
		}
		if err := upload(png); err != nil {
			continue // StoreUnavailable: skip this tick, version not advanced
		}
		version++
		onVersion(version)
	}
}
