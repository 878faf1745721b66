package utils

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of float64 samples.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type RingBuffer struct {
	data     []float64
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}

	return &RingBuffer{
		data:     make([]float64, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append adds a sample, overwriting the oldest one once the buffer is full
func (rb *RingBuffer) Append(v float64) {
	rb.data[rb.index] = v
	rb.index = (rb.index + 1) % rb.capacity

	// Update size (never exceeds capacity)
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// Full reports whether the buffer holds capacity samples
func (rb *RingBuffer) Full() bool {
	return rb.size == rb.capacity
}

// -----------------------------------------------------------------------------

// Window copies the buffered samples, oldest first, into dst (grown if needed) and returns it.
func (rb *RingBuffer) Window(dst []float64) []float64 {
	if cap(dst) < rb.size {
		dst = make([]float64, rb.size)
	}
	dst = dst[:rb.size]

	startIdx := (rb.index - rb.size + rb.capacity) % rb.capacity
	for i := 0; i < rb.size; i++ {
		dst[i] = rb.data[(startIdx+i)%rb.capacity]
	}
	return dst
}
