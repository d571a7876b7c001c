package profile

import (
	"fmt"

	"github.com/paulmach/osm"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

// BitRange is a contiguous, exclusively owned run of bits inside a flag
// word, assigned once by the manager and never reassigned.
type BitRange struct {
	First int // index of the first claimed bit
	Bits  int // number of claimed bits, zero for an empty claim
}

// End returns the index one past the last claimed bit.
func (r BitRange) End() int {
	return r.First + r.Bits
}

// Mask returns the claimed bits as a flag-word mask.
func (r BitRange) Mask() uint64 {
	if r.Bits == 0 {
		return 0
	}

	return ((uint64(1) << r.Bits) - 1) << r.First
}

// Place shifts a value into the claimed range, dropping bits that do not
// fit.
func (r BitRange) Place(v uint64) uint64 {
	return (v << r.First) & r.Mask()
}

// Extract reads the claimed range out of a flag word.
func (r BitRange) Extract(flags uint64) uint64 {
	return (flags & r.Mask()) >> r.First
}

// Binding holds the bit ranges the manager assigned to one profile during
// its build pass.
type Binding struct {
	Index    int // registration position within the manager
	Node     BitRange
	Relation BitRange
	Turn     BitRange
}

// Declaration is the immutable description of a profile: its identity, the
// bit widths it needs, the tag parsers it creates or requires, and the
// callbacks implementing its classification and flag handling.
//
// All callbacks are optional. A nil Classify skips every way; nil handlers
// contribute nothing.
type Declaration struct {
	// Name is the unique lower-case profile identity.
	Name string
	// Version guards persisted graphs against changed profile semantics.
	Version int
	// Options are the activation options that shaped this declaration.
	// They are persisted alongside the version so a stored graph can
	// recreate the profile with identical bit claims.
	Options map[string]string

	// NodeBits, RelationBits and TurnBits are the widths of the three
	// independent bit claims.
	NodeBits     int
	RelationBits int
	TurnBits     int

	// Requires names tag parsers that must be registered before this
	// profile. A missing one is a fatal configuration error, not a cue to
	// create a default.
	Requires []string

	// Parsers creates the profile's own tag parsers. Names must carry the
	// given prefix ("<name>.") to stay collision-free across profiles.
	Parsers func(prefix string) ([]*tags.Parser, error)

	// Classify returns the profile's access verdict for a way.
	Classify func(way *osm.Way) Access

	// HandleWay writes profile-specific properties into the edge buffer.
	// relationFlags is already masked to the profile's own relation range.
	HandleWay func(b Binding, buf *props.EdgeInts, way *osm.Way, access Access, relationFlags uint64) error

	// HandleNode derives node flags (barriers and the like), placed within
	// the profile's node range.
	HandleNode func(b Binding, node *osm.Node) uint64

	// HandleRelation folds a relation into the profile's relation range.
	HandleRelation func(b Binding, relation *osm.Relation, prior uint64) uint64
}

// Profile is a declared but not yet bound profile. Binding happens exactly
// once, inside a manager build; a second bind attempt is a programming
// error surfaced as ErrProfileBound.
type Profile struct {
	decl  Declaration
	bound bool
}

// New wraps a declaration into a bindable profile.
func New(decl Declaration) *Profile {
	return &Profile{decl: decl}
}

// Name returns the profile identity.
func (p *Profile) Name() string {
	return p.decl.Name
}

// Version returns the declared profile version.
func (p *Profile) Version() int {
	return p.decl.Version
}

// Declaration returns the immutable declaration.
func (p *Profile) Declaration() Declaration {
	return p.decl
}

// Registered reports whether the profile was already bound by a build.
func (p *Profile) Registered() bool {
	return p.bound
}

// Bind finalizes the profile's bit claims. It succeeds at most once per
// profile instance.
func (p *Profile) Bind(b Binding) (*Bound, error) {
	if p.bound {
		return nil, fmt.Errorf("%w: %s", errs.ErrProfileBound, p.decl.Name)
	}
	p.bound = true

	return &Bound{decl: p.decl, binding: b}, nil
}

// Bound is a profile with its assigned bit ranges. It is immutable and safe
// for concurrent use.
type Bound struct {
	decl    Declaration
	binding Binding
}

// Name returns the profile identity.
func (b *Bound) Name() string {
	return b.decl.Name
}

// Version returns the declared profile version.
func (b *Bound) Version() int {
	return b.decl.Version
}

// Options returns the activation options that shaped the declaration.
func (b *Bound) Options() map[string]string {
	return b.decl.Options
}

// Binding returns the assigned bit ranges.
func (b *Bound) Binding() Binding {
	return b.binding
}

// Classify returns the profile's access verdict for a way.
func (b *Bound) Classify(way *osm.Way) Access {
	if b.decl.Classify == nil {
		return AccessSkip
	}

	return b.decl.Classify(way)
}

// HandleWay writes the profile's edge properties for an accepted way.
func (b *Bound) HandleWay(buf *props.EdgeInts, way *osm.Way, access Access, relationFlags uint64) error {
	if b.decl.HandleWay == nil {
		return nil
	}

	return b.decl.HandleWay(b.binding, buf, way, access, relationFlags)
}

// HandleNode derives the profile's node flags.
func (b *Bound) HandleNode(node *osm.Node) uint64 {
	if b.decl.HandleNode == nil {
		return 0
	}

	return b.decl.HandleNode(b.binding, node)
}

// HandleRelation folds a relation into the profile's relation flags.
func (b *Bound) HandleRelation(relation *osm.Relation, prior uint64) uint64 {
	if b.decl.HandleRelation == nil {
		return 0
	}

	return b.decl.HandleRelation(b.binding, relation, prior)
}

// NeedsTurnCosts reports whether the profile claimed turn flag bits.
func (b *Bound) NeedsTurnCosts() bool {
	return b.binding.Turn.Bits > 0
}
