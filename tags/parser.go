// Package tags pairs encoded properties with the logic that derives their
// values from OpenStreetMap way tags. A Parser owns exactly one encoded
// value, declares which ways it cares about through a Filter, and writes
// into the shared edge buffer through its value's codec.
package tags

import (
	"github.com/paulmach/osm"

	"github.com/roadpack/roadpack/props"
)

// Filter decides whether a parser wants to see a way at all.
type Filter func(way *osm.Way) bool

// Set is the shared collection of registered parsers, keyed by lower-cased
// name. Parse functions receive it so they can cross-reference properties
// written by other parsers.
type Set map[string]*Parser

// ParseFunc computes and encodes one property of a way.
type ParseFunc func(all Set, buf *props.EdgeInts, way *osm.Way) error

// Parser computes one encoded property from a single way.
type Parser struct {
	name   string
	value  props.EncodedValue
	filter Filter
	parse  ParseFunc
}

// New creates a parser. The name usually equals the encoded value's name;
// profile-created parsers prepend their profile prefix to both.
func New(name string, value props.EncodedValue, filter Filter, parse ParseFunc) *Parser {
	return &Parser{name: name, value: value, filter: filter, parse: parse}
}

// Name returns the unique parser name.
func (p *Parser) Name() string {
	return p.name
}

// Value returns the encoded property this parser writes.
func (p *Parser) Value() props.EncodedValue {
	return p.value
}

// Accepts reports whether the parser's filter matches the way.
func (p *Parser) Accepts(way *osm.Way) bool {
	if p.filter == nil {
		return true
	}

	return p.filter(way)
}

// Filter returns the declarative way filter.
func (p *Parser) Filter() Filter {
	return p.filter
}

// Parse encodes the parser's property for the given way.
func (p *Parser) Parse(all Set, buf *props.EdgeInts, way *osm.Way) error {
	if p.parse == nil {
		return nil
	}

	return p.parse(all, buf, way)
}
