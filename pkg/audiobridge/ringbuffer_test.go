package audiobridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRingBufferWriteReadRoundTrip(t *testing.T) {
	rb := NewRingBuffer(1024, 100)
	rb.Write([]byte("hello"))

	buf := make([]byte, 5)
	n := rb.Read(buf, 5, 50*time.Millisecond)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestRingBufferReachesTargetFill(t *testing.T) {
	rb := NewRingBuffer(1024, 10)
	assert.False(t, rb.HasReachedTarget())

	rb.Write(make([]byte, 20))
	assert.True(t, rb.HasReachedTarget())
}

func TestRingBufferOverrunDropsOldest(t *testing.T) {
	rb := NewRingBuffer(10, 5)
	rb.Write([]byte("0123456789"))
	rb.Write([]byte("ab"))

	_, over := rb.Counters()
	assert.Equal(t, int64(1), over)

	buf := make([]byte, 10)
	n := rb.Read(buf, 1, 10*time.Millisecond)
	assert.Equal(t, "23456789ab", string(buf[:n]))
}

func TestRingBufferUnderrunOnEmptyRead(t *testing.T) {
	rb := NewRingBuffer(1024, 100)

	buf := make([]byte, 10)
	n := rb.Read(buf, 10, 20*time.Millisecond)
	assert.Equal(t, 0, n)

	under, _ := rb.Counters()
	assert.Equal(t, int64(1), under)
}

func TestRingBufferResetClearsTargetFlag(t *testing.T) {
	rb := NewRingBuffer(1024, 10)
	rb.Write(make([]byte, 20))
	assert.True(t, rb.HasReachedTarget())

	rb.Reset()
	assert.False(t, rb.HasReachedTarget())
	assert.Equal(t, 0, rb.Available())
}
