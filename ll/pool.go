package ll

// BufferPool hands out fixed-size buffers. Get returns nil when the pool is
// exhausted; Put must be called exactly once for every buffer obtained.
type BufferPool interface {
	Get() []byte
	Put([]byte)
}

// NewSlabPool returns a BufferPool backed by count preallocated buffers of
// size bytes each. It is not safe for concurrent use; the controller only
// touches its pools under its own lock.
func NewSlabPool(size, count int) BufferPool {
	p := &slabPool{size: size}
	for i := 0; i < count; i++ {
		p.free = append(p.free, make([]byte, size))
	}
	return p
}

type slabPool struct {
	size int
	free [][]byte
}

func (p *slabPool) Get() []byte {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	b := p.free[n-1]
	p.free = p.free[:n-1]
	for i := range b {
		b[i] = 0
	}
	return b
}

func (p *slabPool) Put(b []byte) {
	if cap(b) < p.size {
		panic("ll: foreign buffer returned to pool")
	}
	p.free = append(p.free, b[:p.size])
}
