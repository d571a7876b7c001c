// Package profile models the vehicle profiles that claim bit ranges from
// the encoding manager and classify ways during import.
//
// A profile is split into two phases. The immutable Declaration states what
// the profile needs: bit widths for node, relation and turn flags, required
// and created tag parsers, and the classification and handling callbacks.
// The manager consumes the declaration during its build pass and produces a
// Binding, the assigned bit ranges. The bound profile's runtime callbacks
// close over the binding; nothing is mutated after the build.
package profile

// Access is the per-way verdict of one profile.
type Access uint8

const (
	AccessWay   Access = iota // fully navigable
	AccessFerry               // navigable as a ferry connection only
	AccessSkip                // not navigable, skip the way
)

// IsWay reports whether the way is fully navigable.
func (a Access) IsWay() bool {
	return a == AccessWay
}

// IsFerry reports whether the way is a ferry connection.
func (a Access) IsFerry() bool {
	return a == AccessFerry
}

// CanSkip reports whether the way is excluded for this profile.
func (a Access) CanSkip() bool {
	return a == AccessSkip
}

func (a Access) String() string {
	switch a {
	case AccessWay:
		return "way"
	case AccessFerry:
		return "ferry"
	case AccessSkip:
		return "skip"
	default:
		return "unknown"
	}
}
