// Package props implements the typed bit-packing core of roadpack: named
// properties (booleans, bounded integers, scaled decimals, enumerated
// strings) mapped onto disjoint bit ranges of a fixed-size per-edge word
// buffer.
//
// Layout is assigned by an Allocator, an immutable-update cursor: every
// Claim returns the claimed Slot together with the advanced allocator, so
// the final layout is a pure function of the claim order. Re-running the
// same registrations always reproduces the same offsets, which is what
// keeps persisted edge buffers readable across rebuilds.
//
// Encoded values are created unallocated, receive their slot exactly once
// via Init, and are immutable afterwards. Reads and writes on a shared
// *EdgeInts buffer never touch bits outside the value's own slot, so any
// number of goroutines may decode concurrently as long as each import
// worker writes into its own buffer.
package props
