package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
)

// Job validation failures. The messages are part of the worker contract and
// surface verbatim in logs and job results.
var (
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
)

// FileFinder resolves a file by id scoped to its owner.
type FileFinder interface {
	GetUserFile(ctx context.Context, id, userID string) (models.File, bool, error)
}

// Worker consumes thumbnail jobs and renders scaled copies of the referenced
// image files.
type Worker struct {
	store     FileFinder
	generator *Generator
	logger    *slog.Logger
}

// NewWorker wires a Worker to its file store and generator.
func NewWorker(store FileFinder, generator *Generator, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if generator == nil {
		generator = NewGenerator(logger)
	}
	return &Worker{store: store, generator: generator, logger: logger}
}

// Process handles a single job. Validation failures and unknown files are
// returned as job errors; generation failures are wrapped with the file id.
func (w *Worker) Process(ctx context.Context, job queue.Job) error {
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}
	file, ok, err := w.store.GetUserFile(ctx, job.FileID, job.UserID)
	if err != nil {
		return fmt.Errorf("load file %s: %w", job.FileID, err)
	}
	if !ok {
		return ErrFileNotFound
	}
	if file.Kind != models.KindImage {
		w.logger.Warn("skipping thumbnail job for non-image file",
			"fileId", file.ID,
			"type", file.Kind,
		)
		return nil
	}
	if err := w.generator.Generate(file.LocalPath); err != nil {
		return fmt.Errorf("thumbnails for %s: %w", file.ID, err)
	}
	return nil
}

// Run consumes jobs from the queue until the context is cancelled. Each
// consumer holds its own subscription so deployments with a Redis consumer
// group spread jobs across them. Job failures are logged and never stop the
// worker.
func (w *Worker) Run(ctx context.Context, q queue.Queue, consumers int) error {
	if consumers <= 0 {
		consumers = 1
	}
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < consumers; i++ {
		group.Go(func() error {
			sub := q.Subscribe()
			defer sub.Close()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case job, ok := <-sub.Jobs():
					if !ok {
						return nil
					}
					if err := w.Process(ctx, job); err != nil {
						w.logger.Error("thumbnail job failed",
							"fileId", job.FileID,
							"userId", job.UserID,
							"error", err,
						)
						continue
					}
					w.logger.Info("thumbnail job completed", "fileId", job.FileID)
				}
			}
		})
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
