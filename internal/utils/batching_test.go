package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer_AddAndDrain(t *testing.T) {
	buf := NewBatchBuffer[string]()

	assert.False(t, buf.HasData())
	assert.Nil(t, buf.GetAndClear())

	buf.Add("a")
	buf.Add("b")

	assert.True(t, buf.HasData())
	assert.Equal(t, 2, buf.Size())

	batch := buf.GetAndClear()
	assert.Equal(t, []string{"a", "b"}, batch)

	assert.Equal(t, 0, buf.Size())
	assert.Nil(t, buf.GetAndClear())
}

func TestBatchBuffer_ConcurrentAdds(t *testing.T) {
	buf := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			buf.Add(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, buf.Size())
	assert.Len(t, buf.GetAndClear(), 50)
}
