package props

import (
	"fmt"

	"github.com/roadpack/roadpack/errs"
)

// StringValue stores the ordinal of one member of a fixed enumeration. The
// member list must contain the designated default; its ordinal is what a
// zeroed buffer decodes to when the default is the first member, so by
// convention builders list the default first.
type StringValue struct {
	slots
	name     string
	width    int
	members  []string
	ordinals map[string]uint32
	def      string
}

var _ EncodedValue = (*StringValue)(nil)

// NewString creates an unallocated enumerated property. members must be
// non-empty, free of duplicates and contain defaultValue.
func NewString(name string, members []string, defaultValue string, directed bool) (*StringValue, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s: empty enumeration", errs.ErrUnknownMember, name)
	}

	ordinals := make(map[string]uint32, len(members))
	for i, m := range members {
		if _, ok := ordinals[m]; ok {
			return nil, fmt.Errorf("%w: %s: %q", errs.ErrDuplicateMember, name, m)
		}
		ordinals[m] = uint32(i)
	}
	if _, ok := ordinals[defaultValue]; !ok {
		return nil, fmt.Errorf("%w: %s: default %q not a member", errs.ErrUnknownMember, name, defaultValue)
	}

	return &StringValue{
		name:     name,
		width:    widthFor(uint64(len(members) - 1)),
		members:  append([]string(nil), members...),
		ordinals: ordinals,
		def:      defaultValue,
		slots:    slots{directed: directed},
	}, nil
}

func (v *StringValue) Name() string {
	return v.name
}

func (v *StringValue) Kind() Kind {
	return KindString
}

func (v *StringValue) Bits() int {
	return v.width
}

// Members returns the enumeration in ordinal order.
func (v *StringValue) Members() []string {
	return append([]string(nil), v.members...)
}

// Default returns the designated default member.
func (v *StringValue) Default() string {
	return v.def
}

// Has reports whether value is a member of the enumeration.
func (v *StringValue) Has(value string) bool {
	_, ok := v.ordinals[value]

	return ok
}

func (v *StringValue) Init(a Allocator) (Allocator, error) {
	return v.init(v.name, a, v.width)
}

// Encode writes the ordinal of value for the selected direction. A string
// outside the enumeration is a hard failure.
func (v *StringValue) Encode(buf *EdgeInts, reverse bool, value string) error {
	ord, ok := v.ordinals[value]
	if !ok {
		return fmt.Errorf("%w: %s: %q", errs.ErrUnknownMember, v.name, value)
	}

	return v.set(v.name, buf, reverse, ord)
}

// Decode reads the member for the selected direction. Ordinals that the
// width permits but the enumeration does not fill decode to the default.
func (v *StringValue) Decode(buf *EdgeInts, reverse bool) string {
	ord := v.get(buf, reverse)
	if int(ord) >= len(v.members) {
		return v.def
	}

	return v.members[ord]
}
