package props

import (
	"fmt"

	"github.com/roadpack/roadpack/errs"
)

// EncodedValue is a named, typed view onto a bit range of an EdgeInts
// buffer. Implementations are BoolValue, IntValue, DecimalValue and
// StringValue; callers that receive the interface switch on Kind.
//
// A value is created unallocated. Init claims its slot from the given
// allocator exactly once and returns the advanced allocator; after that the
// layout is immutable and the value is safe for concurrent reads.
type EncodedValue interface {
	// Name returns the unique property name.
	Name() string
	// Kind returns the variant discriminant.
	Kind() Kind
	// Bits returns the declared width of one directional slot.
	Bits() int
	// Directed reports whether forward and backward values are stored
	// independently, doubling the bit cost.
	Directed() bool
	// Offset returns the assigned bit offset, or -1 before Init.
	Offset() int
	// Init claims the value's bit range and returns the advanced allocator.
	Init(a Allocator) (Allocator, error)
}

// slots holds the allocated layout shared by all value variants. For
// undirected values both directions resolve to the forward slot.
type slots struct {
	fwd      Slot
	bwd      Slot
	directed bool
	ready    bool
}

func (s *slots) Directed() bool {
	return s.directed
}

func (s *slots) Offset() int {
	if !s.ready {
		return -1
	}

	return s.fwd.Offset
}

func (s *slots) init(name string, a Allocator, width int) (Allocator, error) {
	if s.ready {
		return a, fmt.Errorf("%w: %s", errs.ErrAlreadyAllocated, name)
	}

	var err error
	if s.directed {
		s.fwd, s.bwd, a, err = a.ClaimDirected(width)
	} else {
		s.fwd, a, err = a.Claim(width)
	}
	if err != nil {
		return a, fmt.Errorf("%s: %w", name, err)
	}
	s.ready = true

	return a, nil
}

func (s *slots) slot(reverse bool) Slot {
	if s.directed && reverse {
		return s.bwd
	}

	return s.fwd
}

func (s *slots) get(buf *EdgeInts, reverse bool) uint32 {
	return s.slot(reverse).read(buf)
}

func (s *slots) set(name string, buf *EdgeInts, reverse bool, v uint32) error {
	if !s.ready {
		return fmt.Errorf("%w: %s", errs.ErrNotAllocated, name)
	}

	return s.slot(reverse).write(buf, v)
}
