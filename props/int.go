package props

import (
	"fmt"
	"math/bits"

	"github.com/roadpack/roadpack/errs"
)

// IntValue stores a bounded non-negative integer. The width is derived from
// the declared maximum: the smallest number of bits able to hold it.
type IntValue struct {
	slots
	name  string
	width int
}

var _ EncodedValue = (*IntValue)(nil)

// widthFor returns ceil(log2(n+1)) with a minimum of one bit.
func widthFor(n uint64) int {
	w := bits.Len64(n)
	if w == 0 {
		w = 1
	}

	return w
}

// NewInt creates an unallocated integer property able to hold values in
// [0, maxValue].
func NewInt(name string, maxValue int, directed bool) (*IntValue, error) {
	if maxValue < 0 {
		return nil, fmt.Errorf("%w: %s: max value %d", errs.ErrValueNegative, name, maxValue)
	}
	width := widthFor(uint64(maxValue))
	if width > WordBits {
		return nil, fmt.Errorf("%w: %s: max value %d needs %d bits", errs.ErrInvalidWidth, name, maxValue, width)
	}

	return &IntValue{
		name:  name,
		width: width,
		slots: slots{directed: directed},
	}, nil
}

func (v *IntValue) Name() string {
	return v.name
}

func (v *IntValue) Kind() Kind {
	return KindInt
}

func (v *IntValue) Bits() int {
	return v.width
}

// MaxStorable returns the largest raw value the allocated width can hold.
func (v *IntValue) MaxStorable() int {
	return (1 << v.width) - 1
}

func (v *IntValue) Init(a Allocator) (Allocator, error) {
	return v.init(v.name, a, v.width)
}

// Encode writes the raw integer for the selected direction. Values outside
// [0, MaxStorable] are a hard failure, never truncated.
func (v *IntValue) Encode(buf *EdgeInts, reverse bool, value int) error {
	if value < 0 {
		return fmt.Errorf("%w: %s: %d", errs.ErrValueNegative, v.name, value)
	}
	if value > v.MaxStorable() {
		return fmt.Errorf("%w: %s: %d exceeds %d", errs.ErrValueOutOfRange, v.name, value, v.MaxStorable())
	}

	return v.set(v.name, buf, reverse, uint32(value))
}

// Decode reads the raw integer for the selected direction.
func (v *IntValue) Decode(buf *EdgeInts, reverse bool) int {
	return int(v.get(buf, reverse))
}
