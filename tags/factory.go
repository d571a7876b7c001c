package tags

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"

	"github.com/roadpack/roadpack/props"
)

// Names of the globally shared properties most profiles rely on.
const (
	RoundaboutKey      = "roundabout"
	RoadClassKey       = "road_class"
	RoadEnvironmentKey = "road_environment"
	MaxSpeedKey        = "max_speed"
)

// EnumDefault is the designated default member of the built-in string
// enumerations.
const EnumDefault = "_default"

// RoadClasses returns the built-in highway classification enumeration, the
// default member first.
func RoadClasses() []string {
	return []string{
		EnumDefault, "footway", "path", "steps", "pedestrian", "living_street", "track",
		"residential", "service", "trunk", "trunk_link", "motorway", "motorway_link", "motorroad",
		"primary", "primary_link", "secondary", "secondary_link", "tertiary", "tertiary_link",
		"cycleway", "unclassified", "road", "bridleway",
	}
}

// RoadEnvironments returns the built-in road environment enumeration.
func RoadEnvironments() []string {
	return []string{EnumDefault, "bridge", "tunnel", "ford", "aerialway"}
}

func hasHighway(way *osm.Way) bool {
	return way.Tags.Find("highway") != ""
}

// NewRoundabout creates the shared roundabout flag parser.
func NewRoundabout() *Parser {
	value := props.NewBool(RoundaboutKey, false)

	return New(RoundaboutKey, value, hasHighway, func(_ Set, buf *props.EdgeInts, way *osm.Way) error {
		junction := way.Tags.Find("junction")
		if junction != "roundabout" && junction != "circular" {
			return nil
		}

		return value.Encode(buf, false, true)
	})
}

// NewRoadClass creates the shared highway classification parser. Unknown
// highway values map to the enumeration default.
func NewRoadClass() (*Parser, error) {
	value, err := props.NewString(RoadClassKey, RoadClasses(), EnumDefault, false)
	if err != nil {
		return nil, err
	}

	return New(RoadClassKey, value, hasHighway, func(_ Set, buf *props.EdgeInts, way *osm.Way) error {
		highway := way.Tags.Find("highway")
		if !value.Has(highway) {
			highway = EnumDefault
		}

		return value.Encode(buf, false, highway)
	}), nil
}

// NewRoadEnvironment creates the shared bridge/tunnel/ford/aerialway parser.
func NewRoadEnvironment() (*Parser, error) {
	value, err := props.NewString(RoadEnvironmentKey, RoadEnvironments(), EnumDefault, false)
	if err != nil {
		return nil, err
	}

	filter := func(way *osm.Way) bool {
		return hasHighway(way) || way.Tags.Find("aerialway") != ""
	}

	return New(RoadEnvironmentKey, value, filter, func(_ Set, buf *props.EdgeInts, way *osm.Way) error {
		env := EnumDefault
		switch {
		case isTagSet(way, "bridge"):
			env = "bridge"
		case isTagSet(way, "tunnel"):
			env = "tunnel"
		case isTagSet(way, "ford"):
			env = "ford"
		case way.Tags.Find("aerialway") != "":
			env = "aerialway"
		}

		return value.Encode(buf, false, env)
	}), nil
}

func isTagSet(way *osm.Way, key string) bool {
	v := way.Tags.Find(key)

	return v != "" && v != "no"
}

// NewMaxSpeed creates the shared legal speed limit parser. The value is
// directed: maxspeed:forward and maxspeed:backward override the shared
// maxspeed tag per direction.
func NewMaxSpeed() (*Parser, error) {
	value, err := props.NewDecimal(MaxSpeedKey, 150, 1.0, true, 0)
	if err != nil {
		return nil, err
	}

	return New(MaxSpeedKey, value, hasHighway, func(_ Set, buf *props.EdgeInts, way *osm.Way) error {
		shared, sharedOK := ParseSpeed(way.Tags.Find("maxspeed"))

		for _, dir := range []struct {
			key     string
			reverse bool
		}{
			{"maxspeed:forward", false},
			{"maxspeed:backward", true},
		} {
			speed, ok := ParseSpeed(way.Tags.Find(dir.key))
			if !ok {
				speed, ok = shared, sharedOK
			}
			if !ok || speed > value.Max() {
				continue
			}
			if err := value.Encode(buf, dir.reverse, speed); err != nil {
				return err
			}
		}

		return nil
	}), nil
}

// ParseSpeed converts an OSM maxspeed tag value to km/h. It understands
// plain numbers, an explicit km/h suffix and mph. Unparseable values and
// the "none"/"walk" markers report false.
func ParseSpeed(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" || s == "walk" || s == "signals" {
		return 0, false
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(s, "mph"):
		factor = 1.60934
		s = strings.TrimSpace(strings.TrimSuffix(s, "mph"))
	case strings.HasSuffix(s, "km/h"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "km/h"))
	case strings.HasSuffix(s, "kph"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "kph"))
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}

	return v * factor, true
}
