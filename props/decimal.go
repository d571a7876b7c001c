package props

import (
	"fmt"
	"math"

	"github.com/roadpack/roadpack/errs"
)

// DecimalValue stores a non-negative decimal as a scaled integer: the
// stored raw value is round(value / factor), the decoded value is
// raw * factor. Rounding is half-up. The default value is converted to its
// raw form once, at construction time.
type DecimalValue struct {
	slots
	name      string
	width     int
	factor    float64
	maxStored uint32
	defStored uint32
}

var _ EncodedValue = (*DecimalValue)(nil)

// NewDecimal creates an unallocated decimal property able to hold values in
// [0, maxValue] with the given resolution factor.
func NewDecimal(name string, maxValue, factor float64, directed bool, defaultValue float64) (*DecimalValue, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrInvalidFactor, name, factor)
	}
	if maxValue < 0 || math.IsNaN(maxValue) {
		return nil, fmt.Errorf("%w: %s: max value %v", errs.ErrValueNegative, name, maxValue)
	}

	maxStored := uint64(math.Round(maxValue / factor))
	width := widthFor(maxStored)
	if width > WordBits {
		return nil, fmt.Errorf("%w: %s: max value %v / factor %v needs %d bits",
			errs.ErrInvalidWidth, name, maxValue, factor, width)
	}

	v := &DecimalValue{
		name:      name,
		width:     width,
		factor:    factor,
		maxStored: uint32(maxStored),
		slots:     slots{directed: directed},
	}

	def, err := v.toStored(defaultValue)
	if err != nil {
		return nil, fmt.Errorf("default value: %w", err)
	}
	v.defStored = def

	return v, nil
}

func (v *DecimalValue) toStored(value float64) (uint32, error) {
	if math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %s", errs.ErrValueNaN, v.name)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %s: %v", errs.ErrValueNegative, v.name, value)
	}
	stored := math.Round(value / v.factor)
	if stored > float64(v.maxStored) {
		return 0, fmt.Errorf("%w: %s: %v exceeds %v",
			errs.ErrValueOutOfRange, v.name, value, float64(v.maxStored)*v.factor)
	}

	return uint32(stored), nil
}

func (v *DecimalValue) Name() string {
	return v.name
}

func (v *DecimalValue) Kind() Kind {
	return KindDecimal
}

func (v *DecimalValue) Bits() int {
	return v.width
}

// Factor returns the resolution of one raw unit.
func (v *DecimalValue) Factor() float64 {
	return v.factor
}

// Max returns the largest encodable decimal value.
func (v *DecimalValue) Max() float64 {
	return float64(v.maxStored) * v.factor
}

// Default returns the construction-time default, quantized to the factor.
func (v *DecimalValue) Default() float64 {
	return float64(v.defStored) * v.factor
}

func (v *DecimalValue) Init(a Allocator) (Allocator, error) {
	return v.init(v.name, a, v.width)
}

// Encode writes the quantized value for the selected direction. Negative,
// NaN and out-of-range values are hard failures, never clamped.
func (v *DecimalValue) Encode(buf *EdgeInts, reverse bool, value float64) error {
	stored, err := v.toStored(value)
	if err != nil {
		return err
	}

	return v.set(v.name, buf, reverse, stored)
}

// Decode reads the value for the selected direction.
func (v *DecimalValue) Decode(buf *EdgeInts, reverse bool) float64 {
	return float64(v.get(buf, reverse)) * v.factor
}
