package props

// Kind discriminates the encoded value variants. Lookup callers match on
// the kind instead of asserting concrete types blindly.
type Kind uint8

const (
	KindBool    Kind = 0x1 // KindBool is a single-bit flag.
	KindInt     Kind = 0x2 // KindInt is a bounded unsigned integer.
	KindDecimal Kind = 0x3 // KindDecimal is a factor-scaled decimal.
	KindString  Kind = 0x4 // KindString is an enumerated string.
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}
