package worker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yourorg/nestboxd/internal/observability/metrics"
)

// StagingSweeper periodically removes stale files from the image staging
// directory. Staged files normally live for milliseconds; anything older
// than maxAge was abandoned by a crashed or disconnected upload.
type StagingSweeper struct {
	dir      string
	logger   *slog.Logger
	interval time.Duration
	maxAge   time.Duration
}

// NewStagingSweeper creates a new staging sweeper
func NewStagingSweeper(dir string, interval, maxAge time.Duration, logger *slog.Logger) *StagingSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &StagingSweeper{dir: dir, logger: logger, interval: interval, maxAge: maxAge}
}

// Start begins the sweeper loop. It runs until the context is cancelled.
func (w *StagingSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("staging sweeper started",
		slog.String("dir", w.dir),
		slog.Duration("interval", w.interval),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("staging sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep removes every staging file older than maxAge. In-flight uploads
// are younger than that and stay untouched.
func (w *StagingSweeper) Sweep() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error("failed to read staging directory", slog.String("error", err.Error()))
		return
	}

	cutoff := time.Now().Add(-w.maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			metrics.ObserveStagingSweep("failure")
			w.logger.Error("failed to remove stale staging file",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		metrics.ObserveStagingSweep("removed")
		w.logger.Info("removed stale staging file", slog.String("file", entry.Name()))
	}
}
