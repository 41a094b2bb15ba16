package queue

import (
	"context"
	"sync"
)

// Job describes a pending thumbnail generation request. Field validation is
// deferred to the consumer so that malformed payloads surface as job failures
// rather than silent drops.
type Job struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// Queue hands thumbnail jobs from the API to background workers. The
// implementation is intentionally minimal to support in-memory deployments
// and fakes used in integration tests.
type Queue interface {
	Publish(ctx context.Context, job Job) error
	Subscribe() Subscription
}

// Subscription represents an active job stream.
type Subscription interface {
	Jobs() <-chan Job
	Close()
}

// NewMemoryQueue initialises an in-process queue suitable for tests and
// single-process deployments. Subscribers compete for jobs so that each job
// is delivered to exactly one consumer.
func NewMemoryQueue(buffer int) Queue {
	if buffer <= 0 {
		buffer = 32
	}
	return &memoryQueue{ch: make(chan Job, buffer)}
}

type memoryQueue struct {
	ch chan Job
}

func (q *memoryQueue) Publish(ctx context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *memoryQueue) Subscribe() Subscription {
	done := make(chan struct{})
	sub := &memorySubscription{
		ch:   make(chan Job),
		done: done,
	}
	go func() {
		defer close(sub.ch)
		for {
			select {
			case job := <-q.ch:
				select {
				case sub.ch <- job:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
	return sub
}

type memorySubscription struct {
	once sync.Once
	ch   chan Job
	done chan struct{}
}

func (s *memorySubscription) Jobs() <-chan Job {
	return s.ch
}

func (s *memorySubscription) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
