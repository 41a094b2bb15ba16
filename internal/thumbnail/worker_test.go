package thumbnail

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
)

type fakeFileFinder struct {
	files map[string]models.File
	err   error
}

func (f *fakeFileFinder) GetUserFile(_ context.Context, id, userID string) (models.File, bool, error) {
	if f.err != nil {
		return models.File{}, false, f.err
	}
	file, ok := f.files[id]
	if !ok || file.UserID != userID {
		return models.File{}, false, nil
	}
	return file, true, nil
}

func TestWorkerProcessValidation(t *testing.T) {
	worker := NewWorker(&fakeFileFinder{}, nil, nil)

	err := worker.Process(context.Background(), queue.Job{UserID: "user-1"})
	require.ErrorIs(t, err, ErrMissingFileID)
	require.EqualError(t, err, "Missing fileId")

	err = worker.Process(context.Background(), queue.Job{FileID: "file-1"})
	require.ErrorIs(t, err, ErrMissingUserID)
	require.EqualError(t, err, "Missing userId")

	err = worker.Process(context.Background(), queue.Job{FileID: "file-1", UserID: "user-1"})
	require.ErrorIs(t, err, ErrFileNotFound)
	require.EqualError(t, err, "File not found")
}

func TestWorkerProcessRejectsForeignFile(t *testing.T) {
	store := &fakeFileFinder{files: map[string]models.File{
		"file-1": {ID: "file-1", UserID: "owner", Kind: models.KindImage},
	}}
	worker := NewWorker(store, nil, nil)

	err := worker.Process(context.Background(), queue.Job{FileID: "file-1", UserID: "intruder"})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestWorkerProcessSkipsNonImage(t *testing.T) {
	store := &fakeFileFinder{files: map[string]models.File{
		"file-1": {ID: "file-1", UserID: "user-1", Kind: models.KindFile},
	}}
	worker := NewWorker(store, nil, nil)

	require.NoError(t, worker.Process(context.Background(), queue.Job{FileID: "file-1", UserID: "user-1"}))
}

func TestWorkerProcessGeneratesThumbnails(t *testing.T) {
	path := writeTestPNG(t, 800, 200)
	store := &fakeFileFinder{files: map[string]models.File{
		"file-1": {ID: "file-1", UserID: "user-1", Kind: models.KindImage, LocalPath: path},
	}}
	worker := NewWorker(store, nil, nil)

	require.NoError(t, worker.Process(context.Background(), queue.Job{FileID: "file-1", UserID: "user-1"}))
	for _, width := range Widths {
		_, err := os.Stat(fmt.Sprintf("%s_%d", path, width))
		require.NoError(t, err)
	}
}

func TestWorkerRunConsumesQueue(t *testing.T) {
	path := writeTestPNG(t, 400, 400)
	store := &fakeFileFinder{files: map[string]models.File{
		"file-1": {ID: "file-1", UserID: "user-1", Kind: models.KindImage, LocalPath: path},
	}}
	worker := NewWorker(store, nil, nil)

	q := queue.NewMemoryQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx, q, 2)
	}()

	require.NoError(t, q.Publish(context.Background(), queue.Job{FileID: "file-1", UserID: "user-1"}))

	require.Eventually(t, func() bool {
		_, err := os.Stat(fmt.Sprintf("%s_%d", path, Widths[0]))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
