// package buffer provides pooled scratch space for samples.
package buffer

import "sync"

var pool = sync.Pool{
	New: func() any {
		b := make([]float32, 4096)
		return &b
	},
}

// Get returns a slice of size samples. The contents are garbage.
func Get(size int) []float32 {
	b := *(pool.Get().(*[]float32))
	if cap(b) < size {
		b = make([]float32, size)
	}
	return b[:size]
}

// Put hands b back for reuse. b must not be used afterwards.
func Put(b []float32) {
	pool.Put(&b)
}
