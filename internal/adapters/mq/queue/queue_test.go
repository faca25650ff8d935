package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/chimera/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	req1 := model.BreedRequest{RequestID: "req1", ParentA: "parent1", ParentB: "founder"}
	if !q.Enqueue(ctx, req1) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	eventChan := q.Dequeue(ctx)
	event := <-eventChan
	if event.RequestID != "req1" {
		t.Errorf("expected req1, got %v", event.RequestID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Fill the queue
	req1 := model.BreedRequest{RequestID: "req1", ParentA: "parent1", ParentB: "founder"}
	req2 := model.BreedRequest{RequestID: "req2", ParentA: "parent2", ParentB: "founder"}
	req3 := model.BreedRequest{RequestID: "req3", ParentA: "parent3", ParentB: "founder"}

	if !q.Enqueue(ctx, req1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, req2) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, req3) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numEvents := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numEvents; j++ {
				event := model.BreedRequest{
					RequestID: fmt.Sprintf("req%d_%d", id, j),
					ParentA:   fmt.Sprintf("parent%d", id),
					ParentB:   "founder",
					Seed:      uint64(j),
				}
				for !q.Enqueue(ctx, event) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numEvents)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			eventChan := q.Dequeue(ctx)
			for event := range eventChan {
				consumed <- event.RequestID
			}
		}()
	}

	// Wait for producers to finish
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to process
	time.Sleep(100 * time.Millisecond)

	// Check final queue length
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	// Enqueue some events
	req1 := model.BreedRequest{RequestID: "req1", ParentA: "parent1", ParentB: "founder"}
	req2 := model.BreedRequest{RequestID: "req2", ParentA: "parent2", ParentB: "founder"}

	if !q.Enqueue(ctx, req1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, req2) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	// Check closed state
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, req1) {
		t.Error("expected enqueue to fail after closing")
	}

	// Dequeue channel should be closed
	eventChan := q.Dequeue(ctx)

	// Wait for channel to be closed
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-eventChan:
			if !ok {
				// Channel is closed, which is expected
				goto channelClosed
			}
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}

func TestInMemoryQueue_BufferNeverBelowCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(5), WithBufferSize(1))
	ctx := context.Background()

	if c := q.Capacity(); c != 5 {
		t.Errorf("expected capacity 5, got %d", c)
	}
	for i := 0; i < 5; i++ {
		if !q.Enqueue(ctx, model.BreedRequest{RequestID: fmt.Sprintf("req%d", i)}) {
			t.Fatalf("expected enqueue %d to succeed", i)
		}
	}
	if q.Enqueue(ctx, model.BreedRequest{RequestID: "overflow"}) {
		t.Error("expected enqueue beyond capacity to fail")
	}
}

func TestInMemoryQueue_TryEnqueueReasons(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.TryEnqueue(ctx, model.BreedRequest{RequestID: "req1"}); err != nil {
		t.Fatalf("expected first enqueue to succeed, got %v", err)
	}
	if err := q.TryEnqueue(ctx, model.BreedRequest{RequestID: "req2"}); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}

	_ = q.Close()
	if err := q.TryEnqueue(ctx, model.BreedRequest{RequestID: "req3"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
