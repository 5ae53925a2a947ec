package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[int](3)
	assert.False(t, b.HasData())
	assert.Nil(t, b.GetAndClear())

	b.Add(1)
	b.Add(2)
	assert.Equal(t, 2, b.Size())
	assert.False(t, b.Full())

	b.Add(3)
	assert.True(t, b.Full())
	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
	assert.Zero(t, b.Size())
}

func TestBatchBuffer_Requeue(t *testing.T) {
	b := NewBatchBuffer[int](2)
	b.Add(1)
	b.Add(2)
	drained := b.GetAndClear()

	b.Add(3)
	b.Requeue(drained)
	b.Requeue(nil)

	assert.True(t, b.Full())
	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
}

func TestBatchBuffer_Concurrent(t *testing.T) {
	b := NewBatchBuffer[int](0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Add(i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.GetAndClear(), 100)
}
