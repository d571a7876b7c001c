package manager

import (
	"fmt"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/profile"
)

// AcceptWay collects the per-profile access verdicts for one way. It is
// transient per-entity state: each import worker keeps its own instance and
// resets it between ways.
type AcceptWay struct {
	access   map[string]profile.Access
	accepted bool
}

// NewAcceptWay creates an empty verdict collection.
func NewAcceptWay() *AcceptWay {
	return &AcceptWay{access: make(map[string]profile.Access, 4)}
}

func (a *AcceptWay) set(name string, access profile.Access) {
	a.access[name] = access
	if !access.CanSkip() {
		a.accepted = true
	}
}

// Get returns the recorded verdict of the named profile.
func (a *AcceptWay) Get(name string) (profile.Access, error) {
	access, ok := a.access[name]
	if !ok {
		return profile.AccessSkip, fmt.Errorf("%w: no verdict recorded for %s", errs.ErrUnknownProfile, name)
	}

	return access, nil
}

// HasAccepted reports whether any profile produced a non-skip verdict.
func (a *AcceptWay) HasAccepted() bool {
	return a.accepted
}

// Reset clears the collection for the next way.
func (a *AcceptWay) Reset() {
	clear(a.access)
	a.accepted = false
}
