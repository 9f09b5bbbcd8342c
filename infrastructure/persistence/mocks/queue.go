package mocks

import (
	"context"
	"sync"

	"duplo-orders/domain/taxjob"
)

// MockEnqueuer records enqueued tax jobs.
type MockEnqueuer struct {
	mu       sync.Mutex
	payloads []taxjob.Payload

	EnqueueErr error
}

// NewMockEnqueuer Create mock enqueuer
func NewMockEnqueuer() *MockEnqueuer {
	return &MockEnqueuer{}
}

func (e *MockEnqueuer) Enqueue(ctx context.Context, p taxjob.Payload) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.EnqueueErr != nil {
		return e.EnqueueErr
	}
	e.payloads = append(e.payloads, p)
	return nil
}

// Enqueued returns a copy of all recorded payloads.
func (e *MockEnqueuer) Enqueued() []taxjob.Payload {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]taxjob.Payload, len(e.payloads))
	copy(out, e.payloads)
	return out
}

// Compile-time interface implementation check
var _ taxjob.Enqueuer = (*MockEnqueuer)(nil)
