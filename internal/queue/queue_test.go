package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryQueueDeliversJobs(t *testing.T) {
	q := NewMemoryQueue(4)
	sub := q.Subscribe()
	t.Cleanup(sub.Close)

	job := Job{FileID: "file-1", UserID: "user-1"}
	require.NoError(t, q.Publish(context.Background(), job))

	select {
	case got := <-sub.Jobs():
		require.Equal(t, job, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestMemoryQueueCompetingConsumers(t *testing.T) {
	q := NewMemoryQueue(8)
	subA := q.Subscribe()
	subB := q.Subscribe()
	t.Cleanup(subA.Close)
	t.Cleanup(subB.Close)

	total := 6
	for i := 0; i < total; i++ {
		require.NoError(t, q.Publish(context.Background(), Job{FileID: "file", UserID: "user"}))
	}

	received := 0
	deadline := time.After(2 * time.Second)
	for received < total {
		select {
		case <-subA.Jobs():
			received++
		case <-subB.Jobs():
			received++
		case <-deadline:
			t.Fatalf("received %d of %d jobs before timeout", received, total)
		}
	}
}

func TestMemoryQueuePublishHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Publish(context.Background(), Job{FileID: "a", UserID: "u"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := q.Publish(ctx, Job{FileID: "b", UserID: "u"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
