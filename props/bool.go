package props

// BoolValue stores a single flag bit, optionally one per direction.
type BoolValue struct {
	slots
	name string
}

var _ EncodedValue = (*BoolValue)(nil)

// NewBool creates an unallocated boolean property.
func NewBool(name string, directed bool) *BoolValue {
	return &BoolValue{name: name, slots: slots{directed: directed}}
}

func (v *BoolValue) Name() string {
	return v.name
}

func (v *BoolValue) Kind() Kind {
	return KindBool
}

func (v *BoolValue) Bits() int {
	return 1
}

// Init claims one bit, or two for a directed flag.
func (v *BoolValue) Init(a Allocator) (Allocator, error) {
	return v.init(v.name, a, 1)
}

// Encode writes the flag for the selected direction.
func (v *BoolValue) Encode(buf *EdgeInts, reverse, value bool) error {
	var raw uint32
	if value {
		raw = 1
	}

	return v.set(v.name, buf, reverse, raw)
}

// Decode reads the flag for the selected direction.
func (v *BoolValue) Decode(buf *EdgeInts, reverse bool) bool {
	return v.get(buf, reverse) != 0
}
