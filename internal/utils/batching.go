package utils

import (
	"sync"
	"time"
)

const (
	BATCH_SIZE    = 50
	BATCH_TIMEOUT = time.Second * 5
)

// BatchBuffer is a mutex-guarded slice that is drained a batch at a time.
type BatchBuffer[T any] struct {
	buffer     []T
	capacity   int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	if capacity <= 0 {
		capacity = BATCH_SIZE
	}
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (b *BatchBuffer[T]) Add(item T) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

// Requeue puts items back in front of anything added since they were drained.
func (b *BatchBuffer[T]) Requeue(items []T) {
	if len(items) == 0 {
		return
	}
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(append(make([]T, 0, len(items)+len(b.buffer)), items...), b.buffer...)
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

// Full reports whether the buffer reached its batch capacity.
func (b *BatchBuffer[T]) Full() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) >= b.capacity
}

func (b *BatchBuffer[T]) HasData() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) > 0
}
