// Package errs defines the sentinel errors shared by all roadpack packages.
//
// Call sites wrap these with fmt.Errorf("%w: detail", ...) so that callers
// can match the kind with errors.Is while still receiving context about the
// offending property, profile or value.
package errs

import "errors"

// Registration and build errors.
var (
	// ErrDuplicateParser indicates a tag parser with the same name (compared
	// case-insensitively) was already registered with the builder.
	ErrDuplicateParser = errors.New("tag parser already registered")

	// ErrDuplicateProfile indicates a profile with the same name was already
	// registered with the builder.
	ErrDuplicateProfile = errors.New("profile already registered")

	// ErrProfileBound indicates a profile instance that was already bound by
	// a previous build was registered again.
	ErrProfileBound = errors.New("profile already bound")

	// ErrBuilderSealed indicates a mutating call on a builder after Build.
	ErrBuilderSealed = errors.New("builder already sealed")

	// ErrUnmetDependency indicates a profile requires a tag parser that was
	// never registered before the profile.
	ErrUnmetDependency = errors.New("required tag parser missing")

	// ErrCapacityExceeded indicates a bit claim went past its ceiling.
	ErrCapacityExceeded = errors.New("bit capacity exceeded")
)

// Allocation errors.
var (
	// ErrInvalidWidth indicates a declared bit width outside [1, 32].
	ErrInvalidWidth = errors.New("invalid bit width")

	// ErrWordStraddle indicates a claim whose slot would cross a word
	// boundary of the packed buffer.
	ErrWordStraddle = errors.New("bit slot would straddle word boundary")

	// ErrAlreadyAllocated indicates Init was called twice on one value.
	ErrAlreadyAllocated = errors.New("encoded value already allocated")

	// ErrNotAllocated indicates an encode or decode before Init.
	ErrNotAllocated = errors.New("encoded value not allocated")

	// ErrShortBuffer indicates an edge buffer with fewer words than the
	// allocated layout requires.
	ErrShortBuffer = errors.New("flag buffer too short")
)

// Codec domain errors.
var (
	// ErrValueNegative indicates a negative value passed to an unsigned codec.
	ErrValueNegative = errors.New("negative value not allowed")

	// ErrValueNaN indicates a not-a-number value passed to a decimal codec.
	ErrValueNaN = errors.New("NaN value not allowed")

	// ErrValueOutOfRange indicates a value too large for the allocated bits.
	ErrValueOutOfRange = errors.New("value out of encodable range")

	// ErrUnknownMember indicates a string outside the registered enumeration.
	ErrUnknownMember = errors.New("value not in enumeration")

	// ErrDuplicateMember indicates an enumeration declared with the same
	// member twice.
	ErrDuplicateMember = errors.New("duplicate enumeration member")

	// ErrInvalidFactor indicates a decimal factor that is not a positive
	// finite number.
	ErrInvalidFactor = errors.New("invalid decimal factor")
)

// Lookup errors.
var (
	// ErrUnknownProperty indicates a lookup of a name no parser registered.
	ErrUnknownProperty = errors.New("unknown encoded property")

	// ErrKindMismatch indicates a lookup with the wrong property kind.
	ErrKindMismatch = errors.New("encoded property kind mismatch")

	// ErrUnknownProfile indicates a lookup of a profile name never registered.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Configuration and persistence errors.
var (
	// ErrVersionMismatch indicates a persisted or requested profile version
	// disagrees with the instantiated one, or a persisted layout does not
	// match the rebuilt one.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrMalformedConfig indicates a profile list string outside the
	// lower-case comma/pipe grammar.
	ErrMalformedConfig = errors.New("malformed profile configuration")

	// ErrInvalidSnapshot indicates a snapshot blob that cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid layout snapshot")

	// ErrInvalidFlagStream indicates a flag-buffer stream with a bad header
	// or truncated payload.
	ErrInvalidFlagStream = errors.New("invalid flag buffer stream")
)
