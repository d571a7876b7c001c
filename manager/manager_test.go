package manager

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/profile"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

func buildManager(t *testing.T, profiles ...*profile.Profile) *Manager {
	t.Helper()

	b, err := NewBuilder()
	require.NoError(t, err)
	addDefaultParsers(t, b)
	for _, p := range profiles {
		require.NoError(t, b.AddProfile(p))
	}

	m, err := b.Build()
	require.NoError(t, err)

	return m
}

func TestManager_Lookup(t *testing.T) {
	m := buildManager(t)

	v, err := m.Lookup("roundabout", props.KindBool)
	require.NoError(t, err)
	require.Equal(t, "roundabout", v.Name())

	// Lookup is case-insensitive.
	_, err = m.Lookup("ROUNDABOUT", props.KindBool)
	require.NoError(t, err)

	_, err = m.Lookup("slope", props.KindBool)
	require.ErrorIs(t, err, errs.ErrUnknownProperty)

	_, err = m.Lookup("roundabout", props.KindDecimal)
	require.ErrorIs(t, err, errs.ErrKindMismatch)

	_, err = m.BoolProperty("road_class")
	require.ErrorIs(t, err, errs.ErrKindMismatch)
	_, err = m.StringProperty("road_class")
	require.NoError(t, err)
	_, err = m.DecimalProperty("max_speed")
	require.NoError(t, err)
}

func TestManager_Profiles(t *testing.T) {
	m := buildManager(t, profile.Car(nil), profile.Foot(nil))

	require.Equal(t, "car,foot", m.String())
	require.Equal(t, "car|version=2,foot|version=1", m.DetailsString())
	require.True(t, m.Supports("car"))
	require.True(t, m.Supports("CAR"))
	require.False(t, m.Supports("bike"))

	_, err := m.Profile("bike")
	require.ErrorIs(t, err, errs.ErrUnknownProfile)
}

func TestManager_ClassifyAndApplyWay(t *testing.T) {
	m := buildManager(t, profile.Car(nil), profile.Bike(nil))

	way := wayWith(
		"highway", "residential",
		"junction", "roundabout",
		"maxspeed", "30",
	)

	acc := NewAcceptWay()
	require.True(t, m.Classify(way, acc))
	carAccess, err := acc.Get("car")
	require.NoError(t, err)
	require.True(t, carAccess.IsWay())

	buf := m.NewEdgeInts()
	require.NoError(t, m.ApplyWay(buf, way, acc, 0))

	roundabout, err := m.BoolProperty("roundabout")
	require.NoError(t, err)
	require.True(t, roundabout.Decode(buf, false))

	roadClass, err := m.StringProperty("road_class")
	require.NoError(t, err)
	require.Equal(t, "residential", roadClass.Decode(buf, false))

	maxSpeed, err := m.DecimalProperty("max_speed")
	require.NoError(t, err)
	require.InDelta(t, 30.0, maxSpeed.Decode(buf, false), 1e-9)

	carSpeed, err := m.DecimalProperty("car.average_speed")
	require.NoError(t, err)
	require.InDelta(t, 30.0, carSpeed.Decode(buf, false), 1e-9)

	bikeSpeed, err := m.DecimalProperty("bike.average_speed")
	require.NoError(t, err)
	require.InDelta(t, 16.0, bikeSpeed.Decode(buf, false), 1e-9)
}

func TestManager_ClassifyRejected(t *testing.T) {
	m := buildManager(t, profile.Car(nil))

	acc := NewAcceptWay()
	require.False(t, m.Classify(wayWith("waterway", "river"), acc))
	require.False(t, acc.HasAccepted())

	acc.Reset()
	require.True(t, m.Classify(wayWith("highway", "motorway"), acc))
}

func TestManager_ApplyRelation(t *testing.T) {
	m := buildManager(t, profile.Car(nil), profile.Bike(nil))

	rel := &osm.Relation{Tags: osm.Tags{
		{Key: "route", Value: "bicycle"},
		{Key: "network", Value: "ncn"},
	}}

	flags := m.ApplyRelation(rel, 0)
	bike, err := m.Profile("bike")
	require.NoError(t, err)
	require.Equal(t, uint64(3), bike.Binding().Relation.Extract(flags))

	// The car relation range stays untouched.
	car, err := m.Profile("car")
	require.NoError(t, err)
	require.Equal(t, uint64(0), car.Binding().Relation.Extract(flags))
}

func TestManager_ApplyNode(t *testing.T) {
	m := buildManager(t, profile.Car(nil), profile.Bike(nil))

	gate := &osm.Node{Tags: osm.Tags{{Key: "barrier", Value: "gate"}}}
	flags := m.ApplyNode(gate)

	car, err := m.Profile("car")
	require.NoError(t, err)
	bike, err := m.Profile("bike")
	require.NoError(t, err)
	require.Equal(t, uint64(1), car.Binding().Node.Extract(flags))
	require.Equal(t, uint64(1), bike.Binding().Node.Extract(flags))

	stile := &osm.Node{Tags: osm.Tags{{Key: "barrier", Value: "stile"}}}
	require.Equal(t, uint64(0), m.ApplyNode(stile))
}

func TestManager_ApplyWayMissingVerdict(t *testing.T) {
	m := buildManager(t, profile.Car(nil))

	// ApplyWay without a prior Classify has no verdicts to consult.
	err := m.ApplyWay(m.NewEdgeInts(), wayWith("highway", "motorway"), NewAcceptWay(), 0)
	require.ErrorIs(t, err, errs.ErrUnknownProfile)
}

func TestManager_Fallback(t *testing.T) {
	m := buildManager(t)

	require.Len(t, m.Profiles(), 1)
	require.Equal(t, profile.FallbackName, m.Profiles()[0].Name())
	require.Equal(t, FallbackFlagBits, m.FlagBits())
	require.False(t, m.NeedsTurnCosts())

	// Any way matched by some parser filter is accepted.
	acc := NewAcceptWay()
	require.True(t, m.Classify(wayWith("highway", "path"), acc))

	acc.Reset()
	require.False(t, m.Classify(wayWith("waterway", "river"), acc))
}

func TestManager_Fingerprint(t *testing.T) {
	m1 := buildManager(t, profile.Car(nil))
	m2 := buildManager(t, profile.Car(nil))
	require.Equal(t, m1.LayoutFingerprint(), m2.LayoutFingerprint())

	// A different profile set changes the layout identity.
	m3 := buildManager(t, profile.Car(nil), profile.Bike(nil))
	require.NotEqual(t, m1.LayoutFingerprint(), m3.LayoutFingerprint())

	// So does a different parser set, even with identical profiles.
	b, err := NewBuilder()
	require.NoError(t, err)
	addDefaultParsers(t, b)
	lanes, err := props.NewInt("lanes", 7, false)
	require.NoError(t, err)
	require.NoError(t, b.AddParser(tags.New("lanes", lanes, nil, nil)))
	require.NoError(t, b.AddProfile(profile.Car(nil)))
	m4, err := b.Build()
	require.NoError(t, err)
	require.NotEqual(t, m1.LayoutFingerprint(), m4.LayoutFingerprint())
}

func TestManager_NewEdgeInts(t *testing.T) {
	m := buildManager(t)
	require.Equal(t, DefaultExtendedDataSize/props.WordBytes, m.NewEdgeInts().Len())
	require.Equal(t, DefaultExtendedDataSize, m.ExtendedDataSize())
	require.Equal(t, DefaultFlagBytes, buildManager(t, profile.Foot(nil)).FlagBytes())
}

func TestDescribeWay(t *testing.T) {
	t.Run("name and ref", func(t *testing.T) {
		m := buildManager(t)
		require.Equal(t, "Hauptstrasse", m.DescribeWay(wayWith("name", "Hauptstrasse")))
		require.Equal(t, "A 7", m.DescribeWay(wayWith("ref", "A 7")))
		require.Equal(t, "Hauptstrasse, A 7", m.DescribeWay(wayWith("name", "Hauptstrasse", "ref", "A 7")))
		require.Equal(t, "", m.DescribeWay(wayWith("highway", "path")))
	})

	t.Run("semicolon lists", func(t *testing.T) {
		m := buildManager(t)
		require.Equal(t, "A 7, B 3", m.DescribeWay(wayWith("ref", "A 7;B 3")))
		require.Equal(t, "North, South", m.DescribeWay(wayWith("name", "North; South")))
	})

	t.Run("preferred language", func(t *testing.T) {
		b, err := NewBuilder(WithPreferredLanguage("de"))
		require.NoError(t, err)
		m, err := b.Build()
		require.NoError(t, err)

		way := wayWith("name", "Main Street", "name:de", "Hauptstrasse")
		require.Equal(t, "Hauptstrasse", m.DescribeWay(way))
		require.Equal(t, "Main Street", m.DescribeWay(wayWith("name", "Main Street")))
	})

	t.Run("disabled", func(t *testing.T) {
		b, err := NewBuilder(WithWayNames(false))
		require.NoError(t, err)
		m, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "", m.DescribeWay(wayWith("name", "Hauptstrasse")))
	})
}

func TestAcceptWay(t *testing.T) {
	acc := NewAcceptWay()
	require.False(t, acc.HasAccepted())

	_, err := acc.Get("car")
	require.ErrorIs(t, err, errs.ErrUnknownProfile)

	acc.set("car", profile.AccessSkip)
	require.False(t, acc.HasAccepted())
	acc.set("bike", profile.AccessFerry)
	require.True(t, acc.HasAccepted())

	acc.Reset()
	require.False(t, acc.HasAccepted())
	_, err = acc.Get("bike")
	require.ErrorIs(t, err, errs.ErrUnknownProfile)
}
