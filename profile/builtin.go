package profile

import (
	"fmt"

	"github.com/paulmach/osm"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

// FallbackName is the identity of the profile synthesized when a manager is
// built without any registered profile.
const FallbackName = "fallback"

// Factory creates profile declarations from an activation entry: a
// lower-case name plus free-form key=value options.
type Factory interface {
	Create(name string, cfg map[string]string) (*Profile, error)
}

type builtinFactory struct{}

// NewFactory returns the factory for the built-in car, bike and foot
// profiles.
func NewFactory() Factory {
	return builtinFactory{}
}

func (builtinFactory) Create(name string, cfg map[string]string) (*Profile, error) {
	switch name {
	case "car":
		return Car(cfg), nil
	case "bike":
		return Bike(cfg), nil
	case "foot":
		return Foot(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownProfile, name)
	}
}

var carHighways = memberSet(
	"motorway", "motorway_link", "motorroad", "trunk", "trunk_link",
	"primary", "primary_link", "secondary", "secondary_link",
	"tertiary", "tertiary_link", "residential", "unclassified",
	"living_street", "service", "road", "track",
)

var bikeHighways = memberSet(
	"cycleway", "path", "track", "living_street", "residential",
	"unclassified", "road", "service", "tertiary", "tertiary_link",
	"secondary", "secondary_link", "primary", "primary_link",
)

var footHighways = memberSet(
	"footway", "path", "steps", "pedestrian", "living_street", "track",
	"residential", "service", "unclassified", "road", "bridleway",
)

func memberSet(members ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}

	return set
}

func isFerry(way *osm.Way) bool {
	route := way.Tags.Find("route")

	return route == "ferry" || route == "shuttle_train"
}

func classifier(accepted map[string]struct{}, mode string) func(way *osm.Way) Access {
	return func(way *osm.Way) Access {
		if access := way.Tags.Find(mode); access == "no" || access == "private" {
			return AccessSkip
		}
		if isFerry(way) {
			return AccessFerry
		}
		if _, ok := accepted[way.Tags.Find("highway")]; ok {
			return AccessWay
		}

		return AccessSkip
	}
}

// averageSpeedParser creates the per-profile estimated speed property from
// a highway-class table.
func averageSpeedParser(prefix string, table map[string]float64, maxSpeed float64) ([]*tags.Parser, error) {
	name := prefix + "average_speed"
	value, err := props.NewDecimal(name, maxSpeed, 1, false, 0)
	if err != nil {
		return nil, err
	}

	filter := func(way *osm.Way) bool {
		_, ok := table[way.Tags.Find("highway")]

		return ok
	}

	return []*tags.Parser{tags.New(name, value, filter, func(_ tags.Set, buf *props.EdgeInts, way *osm.Way) error {
		speed, ok := table[way.Tags.Find("highway")]
		if !ok {
			return nil
		}

		return value.Encode(buf, false, speed)
	})}, nil
}

var carSpeeds = map[string]float64{
	"motorway": 100, "motorway_link": 70, "motorroad": 90,
	"trunk": 70, "trunk_link": 65,
	"primary": 65, "primary_link": 60,
	"secondary": 60, "secondary_link": 50,
	"tertiary": 50, "tertiary_link": 40,
	"residential": 30, "unclassified": 30, "road": 20,
	"living_street": 5, "service": 20, "track": 15,
}

// barrierFlag places a single blocked-node bit when the node carries one of
// the given barrier values.
func barrierFlag(blocking map[string]struct{}) func(b Binding, node *osm.Node) uint64 {
	return func(b Binding, node *osm.Node) uint64 {
		barrier := node.Tags.Find("barrier")
		if barrier == "" {
			return 0
		}
		if _, ok := blocking[barrier]; !ok {
			return 0
		}

		return b.Node.Place(1)
	}
}

// Car returns the built-in car profile. Options: "turn_costs=true" claims
// eight turn flag bits.
func Car(cfg map[string]string) *Profile {
	turnBits := 0
	var opts map[string]string
	if cfg["turn_costs"] == "true" {
		turnBits = 8
		opts = map[string]string{"turn_costs": "true"}
	}

	return New(Declaration{
		Name:         "car",
		Version:      2,
		Options:      opts,
		NodeBits:     2,
		RelationBits: 2,
		TurnBits:     turnBits,
		Requires:     []string{tags.RoadClassKey},
		Parsers: func(prefix string) ([]*tags.Parser, error) {
			return averageSpeedParser(prefix, carSpeeds, 120)
		},
		Classify:   classifier(carHighways, "motor_vehicle"),
		HandleNode: barrierFlag(memberSet("gate", "bollard", "lift_gate", "cattle_grid", "chain")),
	})
}

var bikeSpeeds = map[string]float64{
	"cycleway": 18, "path": 12, "track": 12, "living_street": 15,
	"residential": 16, "unclassified": 16, "road": 14, "service": 14,
	"tertiary": 18, "tertiary_link": 18, "secondary": 18, "secondary_link": 18,
	"primary": 18, "primary_link": 18,
}

// bikeNetworkRank maps cycling relation networks to a relation-flag rank,
// higher meaning more bike friendly.
var bikeNetworkRank = map[string]uint64{
	"lcn": 1, "rcn": 2, "ncn": 3,
}

// Bike returns the built-in bike profile.
func Bike(cfg map[string]string) *Profile {
	_ = cfg

	return New(Declaration{
		Name:         "bike",
		Version:      1,
		NodeBits:     2,
		RelationBits: 3,
		Requires:     []string{tags.RoadClassKey},
		Parsers: func(prefix string) ([]*tags.Parser, error) {
			return averageSpeedParser(prefix, bikeSpeeds, 30)
		},
		Classify:   classifier(bikeHighways, "bicycle"),
		HandleNode: barrierFlag(memberSet("gate", "cattle_grid", "chain")),
		HandleRelation: func(b Binding, relation *osm.Relation, prior uint64) uint64 {
			if relation.Tags.Find("route") != "bicycle" {
				return prior & b.Relation.Mask()
			}
			rank := bikeNetworkRank[relation.Tags.Find("network")]
			if rank <= b.Relation.Extract(prior) {
				return prior & b.Relation.Mask()
			}

			return b.Relation.Place(rank)
		},
	})
}

// Foot returns the built-in foot profile.
func Foot(cfg map[string]string) *Profile {
	_ = cfg

	return New(Declaration{
		Name:     "foot",
		Version:  1,
		NodeBits: 1,
		Classify: classifier(footHighways, "foot"),
	})
}

// Fallback returns the profile synthesized when no profile was registered:
// it accepts any way matched by at least one of the given parser filters
// and encodes every accepted way as all bits set. It is a compatibility
// default, not a real profile.
func Fallback(filters []tags.Filter) *Profile {
	return New(Declaration{
		Name:    FallbackName,
		Version: 1,
		Classify: func(way *osm.Way) Access {
			for _, filter := range filters {
				if filter == nil || filter(way) {
					return AccessWay
				}
			}

			return AccessSkip
		},
		HandleWay: func(_ Binding, buf *props.EdgeInts, _ *osm.Way, access Access, _ uint64) error {
			if access.CanSkip() {
				return nil
			}
			buf.Fill()

			return nil
		},
	})
}
