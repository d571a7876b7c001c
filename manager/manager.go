package manager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/osm"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/profile"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

// Manager is the sealed registry produced by Builder.Build. Its layout (bit
// offsets, capacities, profile set) is immutable, so all methods may be
// called concurrently; per-way mutable state (the edge buffer, the
// AcceptWay) is supplied by the caller and must not be shared between
// concurrent invocations.
type Manager struct {
	parsers  tags.Set
	order    []*tags.Parser
	profiles []*profile.Bound

	flagBits         int
	extendedDataSize int
	usedBits         int
	fingerprint      uint64

	wayNames      bool
	preferredLang string
}

// NewEdgeInts creates a zeroed per-edge buffer sized for this layout.
func (m *Manager) NewEdgeInts() *props.EdgeInts {
	return props.NewEdgeInts(m.extendedDataSize / props.WordBytes)
}

// FlagBits returns the node/relation flag capacity in bits.
func (m *Manager) FlagBits() int {
	return m.flagBits
}

// FlagBytes returns the node/relation flag capacity in bytes.
func (m *Manager) FlagBytes() int {
	return m.flagBits / 8
}

// ExtendedDataSize returns the per-edge property storage in bytes.
func (m *Manager) ExtendedDataSize() int {
	return m.extendedDataSize
}

// UsedBits returns the number of property bits the allocation pass
// assigned.
func (m *Manager) UsedBits() int {
	return m.usedBits
}

// Properties returns every registered encoded value in allocation order.
func (m *Manager) Properties() []props.EncodedValue {
	out := make([]props.EncodedValue, len(m.order))
	for i, parser := range m.order {
		out[i] = parser.Value()
	}

	return out
}

// Profiles returns the bound profiles in registration order. The slice is
// never empty: a fallback profile stands in when none was registered.
func (m *Manager) Profiles() []*profile.Bound {
	return append([]*profile.Bound(nil), m.profiles...)
}

// Profile returns the bound profile with the given name.
func (m *Manager) Profile(name string) (*profile.Bound, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Name(), name) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s (have: %s)", errs.ErrUnknownProfile, name, m)
}

// Supports reports whether a profile with the given name is registered.
func (m *Manager) Supports(name string) bool {
	_, err := m.Profile(name)

	return err == nil
}

// NeedsTurnCosts reports whether any profile claimed turn flag bits.
func (m *Manager) NeedsTurnCosts() bool {
	for _, p := range m.profiles {
		if p.NeedsTurnCosts() {
			return true
		}
	}

	return false
}

// Lookup returns the encoded value registered under name, failing when the
// name is unknown or the stored kind differs from the expected one.
func (m *Manager) Lookup(name string, kind props.Kind) (props.EncodedValue, error) {
	parser, ok := m.parsers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownProperty, name)
	}
	value := parser.Value()
	if value.Kind() != kind {
		return nil, fmt.Errorf("%w: %s is %s, not %s", errs.ErrKindMismatch, name, value.Kind(), kind)
	}

	return value, nil
}

// BoolProperty returns the boolean property registered under name.
func (m *Manager) BoolProperty(name string) (*props.BoolValue, error) {
	v, err := m.Lookup(name, props.KindBool)
	if err != nil {
		return nil, err
	}

	return v.(*props.BoolValue), nil
}

// IntProperty returns the integer property registered under name.
func (m *Manager) IntProperty(name string) (*props.IntValue, error) {
	v, err := m.Lookup(name, props.KindInt)
	if err != nil {
		return nil, err
	}

	return v.(*props.IntValue), nil
}

// DecimalProperty returns the decimal property registered under name.
func (m *Manager) DecimalProperty(name string) (*props.DecimalValue, error) {
	v, err := m.Lookup(name, props.KindDecimal)
	if err != nil {
		return nil, err
	}

	return v.(*props.DecimalValue), nil
}

// StringProperty returns the enumerated property registered under name.
func (m *Manager) StringProperty(name string) (*props.StringValue, error) {
	v, err := m.Lookup(name, props.KindString)
	if err != nil {
		return nil, err
	}

	return v.(*props.StringValue), nil
}

// Classify records every profile's access verdict for the way into acc and
// reports whether at least one profile wants the way.
func (m *Manager) Classify(way *osm.Way, acc *AcceptWay) bool {
	for _, p := range m.profiles {
		acc.set(p.Name(), p.Classify(way))
	}

	return acc.HasAccepted()
}

// ApplyRelation folds the relation into every profile's relation flag range
// and returns the OR-combined flags.
func (m *Manager) ApplyRelation(relation *osm.Relation, prior uint64) uint64 {
	var flags uint64
	for _, p := range m.profiles {
		flags |= p.HandleRelation(relation, prior)
	}

	return flags
}

// ApplyNode derives the OR-combined node flags (barriers and the like) of
// every profile.
func (m *Manager) ApplyNode(node *osm.Node) uint64 {
	var flags uint64
	for _, p := range m.profiles {
		flags |= p.HandleNode(node)
	}

	return flags
}

// ApplyWay encodes the way into buf: first every profile writes its own
// properties, seeing only its slice of the relation flags and its verdict
// from acc, then the generic parser pass encodes every matching registered
// property.
func (m *Manager) ApplyWay(buf *props.EdgeInts, way *osm.Way, acc *AcceptWay, relationFlags uint64) error {
	for _, p := range m.profiles {
		access, err := acc.Get(p.Name())
		if err != nil {
			return err
		}
		masked := relationFlags & p.Binding().Relation.Mask()
		if err := p.HandleWay(buf, way, access, masked); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name(), err)
		}
	}

	for _, parser := range m.order {
		if !parser.Accepts(way) {
			continue
		}
		if err := parser.Parse(m.parsers, buf, way); err != nil {
			return fmt.Errorf("parser %s: %w", parser.Name(), err)
		}
	}

	return nil
}

// String returns the comma-separated profile names.
func (m *Manager) String() string {
	names := make([]string, len(m.profiles))
	for i, p := range m.profiles {
		names[i] = p.Name()
	}

	return strings.Join(names, ",")
}

// DetailsString renders the profile set in the persisted configuration
// grammar: activation options in sorted order, then the version. Feeding
// the result back into AddProfiles recreates profiles with identical bit
// claims.
func (m *Manager) DetailsString() string {
	parts := make([]string, len(m.profiles))
	for i, p := range m.profiles {
		var sb strings.Builder
		sb.WriteString(p.Name())

		keys := make([]string, 0, len(p.Options()))
		for k := range p.Options() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "|%s=%s", k, p.Options()[k])
		}
		fmt.Fprintf(&sb, "|version=%d", p.Version())
		parts[i] = sb.String()
	}

	return strings.Join(parts, ",")
}

// LayoutFingerprint returns a 64-bit hash of the complete layout: property
// names, kinds, offsets, widths and the profile bit claims. Two managers
// share a fingerprint exactly when their persisted edge buffers are
// interchangeable.
func (m *Manager) LayoutFingerprint() uint64 {
	return m.fingerprint
}

func (m *Manager) computeFingerprint() uint64 {
	var sb strings.Builder
	fmt.Fprintf(&sb, "flags=%d;ext=%d;", m.flagBits, m.extendedDataSize)
	for _, parser := range m.order {
		v := parser.Value()
		fmt.Fprintf(&sb, "ev=%s:%s:%d:%d:%t;", v.Name(), v.Kind(), v.Offset(), v.Bits(), v.Directed())
	}
	for _, p := range m.profiles {
		b := p.Binding()
		fmt.Fprintf(&sb, "profile=%s:%d:n%d+%d:r%d+%d:t%d+%d;",
			p.Name(), p.Version(),
			b.Node.First, b.Node.Bits,
			b.Relation.First, b.Relation.Bits,
			b.Turn.First, b.Turn.Bits)
	}

	return xxhash.Sum64String(sb.String())
}
