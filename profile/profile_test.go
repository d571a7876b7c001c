package profile

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/tags"
)

func wayWith(kv ...string) *osm.Way {
	way := &osm.Way{}
	for i := 0; i+1 < len(kv); i += 2 {
		way.Tags = append(way.Tags, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}

	return way
}

func TestBitRange(t *testing.T) {
	r := BitRange{First: 3, Bits: 2}
	require.Equal(t, 5, r.End())
	require.Equal(t, uint64(0b11000), r.Mask())
	require.Equal(t, uint64(0b01000), r.Place(1))
	require.Equal(t, uint64(3), r.Extract(0b11010))

	// Place must not leak into neighbouring ranges.
	require.Equal(t, uint64(0b11000), r.Place(0xff))

	var empty BitRange
	require.Equal(t, uint64(0), empty.Mask())
	require.Equal(t, uint64(0), empty.Place(7))
}

func TestProfile_BindOnce(t *testing.T) {
	p := New(Declaration{Name: "car", Version: 2, NodeBits: 2})
	require.False(t, p.Registered())

	bound, err := p.Bind(Binding{Node: BitRange{First: 0, Bits: 2}})
	require.NoError(t, err)
	require.True(t, p.Registered())
	require.Equal(t, "car", bound.Name())
	require.Equal(t, 2, bound.Version())

	_, err = p.Bind(Binding{})
	require.ErrorIs(t, err, errs.ErrProfileBound)
}

func TestBound_NilCallbacks(t *testing.T) {
	bound, err := New(Declaration{Name: "empty"}).Bind(Binding{})
	require.NoError(t, err)

	way := wayWith("highway", "primary")
	require.Equal(t, AccessSkip, bound.Classify(way))
	require.NoError(t, bound.HandleWay(nil, way, AccessWay, 0))
	require.Equal(t, uint64(0), bound.HandleNode(&osm.Node{}))
	require.Equal(t, uint64(0), bound.HandleRelation(&osm.Relation{}, 5))
	require.False(t, bound.NeedsTurnCosts())
}

func TestCar_Classify(t *testing.T) {
	bound, err := Car(nil).Bind(Binding{})
	require.NoError(t, err)

	require.Equal(t, AccessWay, bound.Classify(wayWith("highway", "motorway")))
	require.Equal(t, AccessWay, bound.Classify(wayWith("highway", "residential")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("highway", "footway")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("highway", "motorway", "motor_vehicle", "no")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("highway", "motorway", "motor_vehicle", "private")))
	require.Equal(t, AccessFerry, bound.Classify(wayWith("route", "ferry")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("waterway", "river")))
}

func TestCar_TurnCosts(t *testing.T) {
	require.Equal(t, 0, Car(nil).Declaration().TurnBits)
	require.Equal(t, 8, Car(map[string]string{"turn_costs": "true"}).Declaration().TurnBits)
}

func TestCar_BarrierNode(t *testing.T) {
	bound, err := Car(nil).Bind(Binding{Node: BitRange{First: 2, Bits: 2}})
	require.NoError(t, err)

	gate := &osm.Node{Tags: osm.Tags{{Key: "barrier", Value: "gate"}}}
	require.Equal(t, uint64(0b0100), bound.HandleNode(gate))

	kerb := &osm.Node{Tags: osm.Tags{{Key: "barrier", Value: "kerb"}}}
	require.Equal(t, uint64(0), bound.HandleNode(kerb))
	require.Equal(t, uint64(0), bound.HandleNode(&osm.Node{}))
}

func TestBike_HandleRelation(t *testing.T) {
	bound, err := Bike(nil).Bind(Binding{Relation: BitRange{First: 2, Bits: 3}})
	require.NoError(t, err)

	rel := func(route, network string) *osm.Relation {
		return &osm.Relation{Tags: osm.Tags{
			{Key: "route", Value: route},
			{Key: "network", Value: network},
		}}
	}

	flags := bound.HandleRelation(rel("bicycle", "lcn"), 0)
	require.Equal(t, uint64(1), bound.Binding().Relation.Extract(flags))

	// A higher-ranked network wins over the prior flags.
	flags = bound.HandleRelation(rel("bicycle", "ncn"), flags)
	require.Equal(t, uint64(3), bound.Binding().Relation.Extract(flags))

	// A lower-ranked one does not downgrade them.
	flags = bound.HandleRelation(rel("bicycle", "lcn"), flags)
	require.Equal(t, uint64(3), bound.Binding().Relation.Extract(flags))

	// Non-bicycle relations pass the prior flags through.
	flags = bound.HandleRelation(rel("road", "ncn"), flags)
	require.Equal(t, uint64(3), bound.Binding().Relation.Extract(flags))
}

func TestFoot_Classify(t *testing.T) {
	bound, err := Foot(nil).Bind(Binding{})
	require.NoError(t, err)

	require.Equal(t, AccessWay, bound.Classify(wayWith("highway", "footway")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("highway", "motorway")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("highway", "footway", "foot", "no")))
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	for _, name := range []string{"car", "bike", "foot"} {
		p, err := factory.Create(name, nil)
		require.NoError(t, err)
		require.Equal(t, name, p.Name())
	}

	_, err := factory.Create("hovercraft", nil)
	require.ErrorIs(t, err, errs.ErrUnknownProfile)
}

func TestFallback(t *testing.T) {
	hasHighway := func(way *osm.Way) bool {
		return way.Tags.Find("highway") != ""
	}
	bound, err := Fallback([]tags.Filter{hasHighway}).Bind(Binding{})
	require.NoError(t, err)
	require.Equal(t, FallbackName, bound.Name())

	require.Equal(t, AccessWay, bound.Classify(wayWith("highway", "path")))
	require.Equal(t, AccessSkip, bound.Classify(wayWith("waterway", "river")))
}
