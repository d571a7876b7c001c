// Package store holds the persistence collaborators of the encoding
// manager: the layout snapshot that guards stored graphs against
// configuration drift, a compressed stream format for per-edge flag
// buffers, and a JSON rendering of the layout for tooling.
package store

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/manager"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot captures everything a stored graph needs to verify that a
// rebuilt manager produces byte-compatible edge buffers. Any change to
// registration order, bit widths or profile versions changes the
// fingerprint and invalidates previously persisted buffers.
type Snapshot struct {
	FormatVersion    int    `msgpack:"format_version"`
	Profiles         string `msgpack:"profiles"`
	FlagBytes        int    `msgpack:"flag_bytes"`
	ExtendedDataSize int    `msgpack:"extended_data_size"`
	UsedBits         int    `msgpack:"used_bits"`
	Fingerprint      uint64 `msgpack:"fingerprint"`
}

// TakeSnapshot records the manager's layout.
func TakeSnapshot(m *manager.Manager) Snapshot {
	return Snapshot{
		FormatVersion:    SnapshotVersion,
		Profiles:         m.DetailsString(),
		FlagBytes:        m.FlagBytes(),
		ExtendedDataSize: m.ExtendedDataSize(),
		UsedBits:         m.UsedBits(),
		Fingerprint:      m.LayoutFingerprint(),
	}
}

// Save writes the msgpack-encoded snapshot.
func (s Snapshot) Save(w io.Writer) error {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	return nil
}

// LoadSnapshot reads and validates a snapshot written by Save.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, err
	}

	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	if s.FormatVersion != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: snapshot format version %d, supported %d",
			errs.ErrVersionMismatch, s.FormatVersion, SnapshotVersion)
	}

	return s, nil
}

// Check verifies that the manager reproduces the persisted layout. Every
// mismatch is a hard failure: a stored graph must never be read with a
// different bit layout.
func (s Snapshot) Check(m *manager.Manager) error {
	if got := m.DetailsString(); got != s.Profiles {
		return fmt.Errorf("%w: stored profiles %q, configured %q", errs.ErrVersionMismatch, s.Profiles, got)
	}
	if got := m.FlagBytes(); got != s.FlagBytes {
		return fmt.Errorf("%w: stored flag bytes %d, configured %d", errs.ErrVersionMismatch, s.FlagBytes, got)
	}
	if got := m.ExtendedDataSize(); got != s.ExtendedDataSize {
		return fmt.Errorf("%w: stored extended data size %d, configured %d",
			errs.ErrVersionMismatch, s.ExtendedDataSize, got)
	}
	if got := m.LayoutFingerprint(); got != s.Fingerprint {
		return fmt.Errorf("%w: stored layout fingerprint %016x, rebuilt %016x",
			errs.ErrVersionMismatch, s.Fingerprint, got)
	}

	return nil
}
