// Package roadpack implements the encoded-value subsystem of a road-graph
// import pipeline: a compact, versioned bit layout for per-edge (and
// per-node, per-relation, per-turn) properties derived from OpenStreetMap
// data, shared without collisions by any number of vehicle profiles.
//
// # Core Concepts
//
//   - Encoded values (props package): named boolean, integer, decimal and
//     enumerated string properties, each owning a disjoint bit range of a
//     fixed-size per-edge word buffer, optionally duplicated per direction
//   - Tag parsers (tags package): the logic deriving one property from a
//     way's tags
//   - Profiles (profile package): vehicle classes that classify ways and
//     claim independent node, relation and turn flag bits
//   - The manager (manager package): registers everything, runs the
//     one-shot allocation pass and dispatches during import
//   - Persistence (store package): layout snapshots that reject
//     incompatible configurations at load time, and a compressed stream
//     format for the packed buffers
//
// # Basic Usage
//
// Building a manager with the built-in parsers and profiles:
//
//	em, err := roadpack.NewManager("car|version=2,bike")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := em.NewEdgeInts()
//	acc := manager.NewAcceptWay()
//	for way := range ways {
//	    acc.Reset()
//	    if !em.Classify(way, acc) {
//	        continue
//	    }
//	    buf.Reset()
//	    if err := em.ApplyWay(buf, way, acc, 0); err != nil {
//	        log.Fatal(err)
//	    }
//	    // hand buf to the graph storage
//	}
//
// Reading a property back out:
//
//	roadClass, err := em.StringProperty(tags.RoadClassKey)
//	value := roadClass.Decode(buf, false)
//
// For custom properties and profiles, use the manager.Builder directly.
package roadpack

import (
	"io"

	"github.com/roadpack/roadpack/manager"
	"github.com/roadpack/roadpack/profile"
	"github.com/roadpack/roadpack/store"
	"github.com/roadpack/roadpack/tags"
)

// DefaultParsers returns the globally shared tag parsers most profiles rely
// on: roundabout, road_class, road_environment and max_speed.
func DefaultParsers() ([]*tags.Parser, error) {
	roadClass, err := tags.NewRoadClass()
	if err != nil {
		return nil, err
	}
	roadEnv, err := tags.NewRoadEnvironment()
	if err != nil {
		return nil, err
	}
	maxSpeed, err := tags.NewMaxSpeed()
	if err != nil {
		return nil, err
	}

	return []*tags.Parser{tags.NewRoundabout(), roadClass, roadEnv, maxSpeed}, nil
}

// NewBuilder creates a manager builder preloaded with the default parsers.
func NewBuilder(opts ...manager.Option) (*manager.Builder, error) {
	b, err := manager.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	parsers, err := DefaultParsers()
	if err != nil {
		return nil, err
	}
	for _, p := range parsers {
		if err := b.AddParser(p); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// NewManager builds a manager from a profile activation string using the
// built-in profile factory and the default parsers.
func NewManager(profiles string, opts ...manager.Option) (*manager.Manager, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	if err := b.AddProfiles(profile.NewFactory(), profiles); err != nil {
		return nil, err
	}

	return b.Build()
}

// OpenManager rebuilds a manager from a persisted layout snapshot and
// verifies that the rebuilt layout is byte-compatible with the stored one.
// A graph written with custom parsers or profiles cannot be reopened this
// way; the fingerprint check rejects it.
func OpenManager(r io.Reader, opts ...manager.Option) (*manager.Manager, error) {
	snap, err := store.LoadSnapshot(r)
	if err != nil {
		return nil, err
	}

	opts = append(opts,
		manager.WithFlagBytes(snap.FlagBytes),
		manager.WithExtendedDataSize(snap.ExtendedDataSize),
	)
	m, err := NewManager(snap.Profiles, opts...)
	if err != nil {
		return nil, err
	}
	if err := snap.Check(m); err != nil {
		return nil, err
	}

	return m, nil
}
