package audiobridge

import (
	"sync"
	"sync/atomic"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// frameBuffer is a reusable byte slice sized for one 20ms PCM frame.
type frameBuffer struct {
	Data []byte
	pool *framePool
}

// Release returns the buffer to its pool for reuse.
func (fb *frameBuffer) Release() {
	if fb.pool != nil {
		fb.pool.Put(fb)
	}
}

// framePool recycles fixed-size audio frame buffers so the capture and
// playback loops don't allocate on every 20ms tick.
type framePool struct {
	pool *sync.Pool

	hits int64
	miss int64

	log *logging.Logger
}

func newFramePool(frameSize int, log *logging.Logger) *framePool {
	fp := &framePool{log: log}
	fp.pool = &sync.Pool{
		New: func() interface{} {
			atomic.AddInt64(&fp.miss, 1)
			return &frameBuffer{Data: make([]byte, frameSize), pool: fp}
		},
	}
	return fp
}

func (fp *framePool) Get() *frameBuffer {
	atomic.AddInt64(&fp.hits, 1)
	return fp.pool.Get().(*frameBuffer)
}

func (fp *framePool) Put(fb *frameBuffer) {
	if fb == nil || fb.Data == nil {
		return
	}
	for i := range fb.Data {
		fb.Data[i] = 0
	}
	fp.pool.Put(fb)
}

// Stats reports pool hit/miss counters for diagnostics.
func (fp *framePool) Stats() (hits, miss int64) {
	return atomic.LoadInt64(&fp.hits), atomic.LoadInt64(&fp.miss)
}
