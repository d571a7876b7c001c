package manager

import (
	"regexp"

	"github.com/paulmach/osm"
)

var semicolonList = regexp.MustCompile(`; *`)

// fixWayName normalizes OSM semicolon lists into readable comma lists.
func fixWayName(name string) string {
	return semicolonList.ReplaceAllString(name, ", ")
}

// DescribeWay derives a human-readable label for the way from its "name"
// (preferring "name:<lang>" when a preferred language is configured) and
// "ref" tags. It returns the empty string when way names are disabled or
// the way carries neither tag. The label is a convenience for instruction
// generation and takes no part in the binary layout.
func (m *Manager) DescribeWay(way *osm.Way) string {
	if !m.wayNames {
		return ""
	}

	var name string
	if m.preferredLang != "" {
		name = fixWayName(way.Tags.Find("name:" + m.preferredLang))
	}
	if name == "" {
		name = fixWayName(way.Tags.Find("name"))
	}

	ref := fixWayName(way.Tags.Find("ref"))
	switch {
	case ref == "":
		return name
	case name == "":
		return ref
	default:
		return name + ", " + ref
	}
}
