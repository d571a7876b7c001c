package props

const (
	// WordBits is the width of one storage word of an edge buffer.
	WordBits = 32
	// WordBytes is WordBits in bytes.
	WordBytes = 4
)

// EdgeInts is the fixed-length array of storage words attached to one graph
// edge. All encoded properties of the edge live inside it, each in its own
// bit range. One instance exists per edge being imported; instances must
// not be shared between concurrent import workers.
type EdgeInts struct {
	Words []uint32
}

// NewEdgeInts creates a zeroed buffer with the given number of words.
func NewEdgeInts(words int) *EdgeInts {
	return &EdgeInts{Words: make([]uint32, words)}
}

// Len returns the number of storage words.
func (e *EdgeInts) Len() int {
	return len(e.Words)
}

// Reset clears every word so the buffer can be reused for the next edge.
func (e *EdgeInts) Reset() {
	for i := range e.Words {
		e.Words[i] = 0
	}
}

// Fill sets every bit of every word.
func (e *EdgeInts) Fill() {
	for i := range e.Words {
		e.Words[i] = ^uint32(0)
	}
}

// Clone returns an independent copy of the buffer.
func (e *EdgeInts) Clone() *EdgeInts {
	c := &EdgeInts{Words: make([]uint32, len(e.Words))}
	copy(c.Words, e.Words)

	return c
}
