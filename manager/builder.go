// Package manager orchestrates property registration and bit-layout
// allocation for a road-graph import: tag parsers and profiles are
// registered with a Builder, Build runs the allocation pass exactly once,
// and the resulting Manager dispatches classification and encoding during
// the import itself.
package manager

import (
	"fmt"
	"strings"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/internal/options"
	"github.com/roadpack/roadpack/profile"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

const (
	// DefaultFlagBytes is the default capacity for node and relation flags.
	DefaultFlagBytes = 4
	// MaxFlagBytes is the only other supported flag capacity.
	MaxFlagBytes = 8
	// DefaultExtendedDataSize is the default per-edge property storage in
	// bytes.
	DefaultExtendedDataSize = 8
	// TurnFlagBits is the fixed turn-flag capacity shared by all profiles,
	// independent of the edge flag capacity.
	TurnFlagBits = 32
	// FallbackFlagBits is the edge-flag capacity assumed when no profile
	// was registered and the fallback profile is synthesized.
	FallbackFlagBits = 32
)

// Builder accumulates tag parsers and profiles, then performs the one-shot
// allocation pass. It is single-use: Build seals it permanently, and a
// failed Build leaves it sealed rather than rolled back. Registration is
// not safe for concurrent use; one goroutine drives the builder end to end.
type Builder struct {
	sealed bool

	flagBytes        int
	extendedDataSize int
	wayNames         bool
	preferredLang    string

	parsers  tags.Set
	order    []*tags.Parser
	profiles []*profile.Profile
}

// Option configures a Builder.
type Option = options.Option[*Builder]

// WithFlagBytes sets the node/relation flag capacity in bytes. Only 4
// (default) and 8 are supported.
func WithFlagBytes(n int) Option {
	return options.New(func(b *Builder) error {
		if n != DefaultFlagBytes && n != MaxFlagBytes {
			return fmt.Errorf("%w: flag bytes must be %d or %d, got %d",
				errs.ErrMalformedConfig, DefaultFlagBytes, MaxFlagBytes, n)
		}
		b.flagBytes = n

		return nil
	})
}

// WithExtendedDataSize sets the per-edge property storage in bytes. The
// size is rounded up to a whole number of storage words.
func WithExtendedDataSize(bytes int) Option {
	return options.New(func(b *Builder) error {
		if bytes < 1 {
			return fmt.Errorf("%w: extended data size must be positive, got %d",
				errs.ErrMalformedConfig, bytes)
		}
		words := (bytes + props.WordBytes - 1) / props.WordBytes
		b.extendedDataSize = words * props.WordBytes

		return nil
	})
}

// WithWayNames controls whether DescribeWay derives human-readable labels.
// Enabled by default.
func WithWayNames(enabled bool) Option {
	return options.NoError(func(b *Builder) {
		b.wayNames = enabled
	})
}

// WithPreferredLanguage sets the language whose "name:<lang>" tag takes
// precedence in DescribeWay.
func WithPreferredLanguage(lang string) Option {
	return options.NoError(func(b *Builder) {
		b.preferredLang = lang
	})
}

// NewBuilder creates an open builder with default capacities.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		flagBytes:        DefaultFlagBytes,
		extendedDataSize: DefaultExtendedDataSize,
		wayNames:         true,
		parsers:          make(tags.Set),
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Builder) checkOpen() error {
	if b.sealed {
		return errs.ErrBuilderSealed
	}

	return nil
}

// AddParser registers a tag parser. Names are unique case-insensitively.
func (b *Builder) AddParser(p *tags.Parser) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	key := strings.ToLower(p.Name())
	if existing, ok := b.parsers[key]; ok {
		return fmt.Errorf("%w: %q collides with %q", errs.ErrDuplicateParser, p.Name(), existing.Name())
	}
	b.parsers[key] = p
	b.order = append(b.order, p)

	return nil
}

// AddProfile registers a profile and pulls in the parsers it creates under
// its name prefix. Parsers the profile requires must already be registered;
// a missing one fails immediately rather than being defaulted.
func (b *Builder) AddProfile(p *profile.Profile) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if p.Registered() {
		return fmt.Errorf("%w: %s", errs.ErrProfileBound, p.Name())
	}
	for _, existing := range b.profiles {
		if existing.Name() == p.Name() {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateProfile, p.Name())
		}
	}

	decl := p.Declaration()
	for _, required := range decl.Requires {
		if _, ok := b.parsers[strings.ToLower(required)]; !ok {
			return fmt.Errorf("%w: profile %s requires parser %q",
				errs.ErrUnmetDependency, p.Name(), required)
		}
	}
	if decl.Parsers != nil {
		created, err := decl.Parsers(p.Name() + ".")
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name(), err)
		}
		for _, parser := range created {
			if err := b.AddParser(parser); err != nil {
				return err
			}
		}
	}
	b.profiles = append(b.profiles, p)

	return nil
}

// AddProfiles activates profiles from a persisted configuration string,
// e.g. "car|version=2,bike". The grammar is fixed: lower case, comma
// separated entries, pipe-delimited key=value options. A version option
// must match the instantiated profile's version exactly.
func (b *Builder) AddProfiles(factory profile.Factory, list string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	entries, err := parseProfileList(list)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		p, err := factory.Create(entry.name, entry.cfg)
		if err != nil {
			return err
		}
		if requested, ok := entry.version(); ok && requested != p.Version() {
			return fmt.Errorf("%w: profile %s requested version %d, have version %d",
				errs.ErrVersionMismatch, entry.name, requested, p.Version())
		}
		if err := b.AddProfile(p); err != nil {
			return err
		}
	}

	return nil
}

// Build runs the allocation pass and returns the sealed manager. The
// builder is sealed no matter the outcome; any later mutation fails with
// ErrBuilderSealed while an already returned manager stays valid.
func (b *Builder) Build() (*Manager, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	b.sealed = true

	// Allocation order is registration order; rebuilding with the same
	// registrations reproduces identical offsets.
	alloc := props.NewAllocator()
	var err error
	for _, parser := range b.order {
		alloc, err = parser.Value().Init(alloc)
		if err != nil {
			return nil, err
		}
	}
	capacity := b.extendedDataSize * 8
	if alloc.Offset() > capacity {
		return nil, fmt.Errorf("%w: edge properties need %d bits but extended data size %d holds %d",
			errs.ErrCapacityExceeded, alloc.Offset(), b.extendedDataSize, capacity)
	}

	m := &Manager{
		parsers:          b.parsers,
		order:            b.order,
		extendedDataSize: b.extendedDataSize,
		usedBits:         alloc.Offset(),
		wayNames:         b.wayNames,
		preferredLang:    b.preferredLang,
	}

	if len(b.profiles) == 0 {
		if err := b.bindFallback(m); err != nil {
			return nil, err
		}
	} else {
		m.flagBits = b.flagBytes * 8
		if m.flagBits == 0 {
			return nil, fmt.Errorf("%w: edge flag capacity not configured", errs.ErrMalformedConfig)
		}
		if err := b.bindProfiles(m); err != nil {
			return nil, err
		}
	}

	m.fingerprint = m.computeFingerprint()

	return m, nil
}

// bindFallback synthesizes the compatibility profile used when nothing was
// registered: it accepts any way matched by some parser filter and claims
// no flag bits of its own.
func (b *Builder) bindFallback(m *Manager) error {
	filters := make([]tags.Filter, 0, len(b.order))
	for _, parser := range b.order {
		filters = append(filters, parser.Filter())
	}

	bound, err := profile.Fallback(filters).Bind(profile.Binding{})
	if err != nil {
		return err
	}
	m.flagBits = FallbackFlagBits
	m.profiles = []*profile.Bound{bound}

	return nil
}

// bindProfiles runs the bit-claim protocol: three independent cursors, one
// per flag category, each claim checked against its own ceiling before
// anything is assigned.
func (b *Builder) bindProfiles(m *Manager) error {
	var nextNodeBit, nextRelBit, nextTurnBit int

	for i, p := range b.profiles {
		decl := p.Declaration()

		node, err := claimRange(&nextNodeBit, decl.NodeBits, m.flagBits, "node", p.Name())
		if err != nil {
			return err
		}
		rel, err := claimRange(&nextRelBit, decl.RelationBits, m.flagBits, "relation", p.Name())
		if err != nil {
			return err
		}
		turn, err := claimRange(&nextTurnBit, decl.TurnBits, TurnFlagBits, "turn", p.Name())
		if err != nil {
			return err
		}

		bound, err := p.Bind(profile.Binding{Index: i, Node: node, Relation: rel, Turn: turn})
		if err != nil {
			return err
		}
		m.profiles = append(m.profiles, bound)
	}

	return nil
}

func claimRange(cursor *int, bits, ceiling int, category, name string) (profile.BitRange, error) {
	used := *cursor + bits
	if used > ceiling {
		return profile.BitRange{}, fmt.Errorf("%w: profile %s needs %d %s flag bits, only %d available",
			errs.ErrCapacityExceeded, name, used, category, ceiling)
	}
	r := profile.BitRange{First: *cursor, Bits: bits}
	*cursor = used

	return r, nil
}
