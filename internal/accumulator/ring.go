package accumulator

import "github.com/standardbeagle/lgrep/internal/types"

// ring holds the most recent unselected lines for leading context
type ring struct {
	buf  []types.LineRecord
	head int // index of the oldest entry
	size int
}

func newRing(capacity int) ring {
	return ring{buf: make([]types.LineRecord, capacity)}
}

// push appends a line, evicting the oldest one when full
func (r *ring) push(line types.LineRecord) {
	if len(r.buf) == 0 {
		return
	}
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = line
		r.size++
		return
	}
	r.buf[r.head] = line
	r.head = (r.head + 1) % len(r.buf)
}

// drain calls fn for each buffered line, oldest first, and empties the ring
func (r *ring) drain(fn func(types.LineRecord)) {
	for i := 0; i < r.size; i++ {
		fn(r.buf[(r.head+i)%len(r.buf)])
	}
	r.reset()
}

func (r *ring) reset() {
	for i := range r.buf {
		r.buf[i] = types.LineRecord{}
	}
	r.head = 0
	r.size = 0
}

func (r *ring) len() int {
	return r.size
}
