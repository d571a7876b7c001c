package props

import (
	"fmt"

	"github.com/roadpack/roadpack/errs"
)

// Slot is a contiguous bit range inside an EdgeInts buffer. A slot never
// crosses a word boundary, so a single masked word access reads or writes
// the whole value.
type Slot struct {
	Offset int // absolute bit offset inside the buffer
	Width  int // number of bits
}

func (s Slot) word() int {
	return s.Offset / WordBits
}

func (s Slot) shift() uint {
	return uint(s.Offset % WordBits)
}

func (s Slot) mask() uint32 {
	return ((uint32(1) << s.Width) - 1) << s.shift()
}

func (s Slot) read(buf *EdgeInts) uint32 {
	w := s.word()
	if w >= len(buf.Words) {
		return 0
	}

	return (buf.Words[w] & s.mask()) >> s.shift()
}

func (s Slot) write(buf *EdgeInts, v uint32) error {
	w := s.word()
	if w >= len(buf.Words) {
		return fmt.Errorf("%w: slot [%d,%d) needs %d words, buffer has %d",
			errs.ErrShortBuffer, s.Offset, s.Offset+s.Width, w+1, len(buf.Words))
	}
	buf.Words[w] = (buf.Words[w] &^ s.mask()) | (v << s.shift())

	return nil
}

// Allocator hands out disjoint slots from a single monotonically advancing
// bit cursor. It is a value type with immutable-update semantics: Claim
// never mutates its receiver, it returns the advanced allocator alongside
// the claimed slot. A failed claim leaves the original allocator usable and
// claims nothing.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator with its cursor at bit zero.
func NewAllocator() Allocator {
	return Allocator{}
}

// Offset returns the total number of bits claimed so far.
func (a Allocator) Offset() int {
	return a.next
}

// Claim reserves width bits at the current cursor and returns the slot
// together with the advanced allocator.
//
// Claims that would straddle a word boundary are rejected rather than
// silently padded; the caller decides how to reorder or resize its values.
func (a Allocator) Claim(width int) (Slot, Allocator, error) {
	if width < 1 || width > WordBits {
		return Slot{}, a, fmt.Errorf("%w: %d bits (allowed 1..%d)", errs.ErrInvalidWidth, width, WordBits)
	}
	if a.next%WordBits+width > WordBits {
		return Slot{}, a, fmt.Errorf("%w: %d bits at offset %d", errs.ErrWordStraddle, width, a.next)
	}

	slot := Slot{Offset: a.next, Width: width}

	return slot, Allocator{next: a.next + width}, nil
}

// ClaimDirected reserves two adjacent slots of width bits each, one per
// travel direction. Either both slots are claimed or neither is.
func (a Allocator) ClaimDirected(width int) (fwd Slot, bwd Slot, out Allocator, err error) {
	fwd, out, err = a.Claim(width)
	if err != nil {
		return Slot{}, Slot{}, a, err
	}
	bwd, out, err = out.Claim(width)
	if err != nil {
		return Slot{}, Slot{}, a, err
	}

	return fwd, bwd, out, nil
}
