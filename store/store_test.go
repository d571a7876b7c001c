package store

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/roadpack/roadpack/compress"
	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/manager"
	"github.com/roadpack/roadpack/profile"
	"github.com/roadpack/roadpack/props"
	"github.com/roadpack/roadpack/tags"
)

func buildManager(t *testing.T, profiles string) *manager.Manager {
	t.Helper()

	b, err := manager.NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.AddParser(tags.NewRoundabout()))
	roadClass, err := tags.NewRoadClass()
	require.NoError(t, err)
	require.NoError(t, b.AddParser(roadClass))

	if profiles != "" {
		require.NoError(t, b.AddProfiles(profile.NewFactory(), profiles))
	}

	m, err := b.Build()
	require.NoError(t, err)

	return m
}

func TestSnapshot_Roundtrip(t *testing.T) {
	m := buildManager(t, "car,foot")
	snap := TakeSnapshot(m)

	var buf bytes.Buffer
	require.NoError(t, snap.Save(&buf))

	loaded, err := LoadSnapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, snap, loaded)
	require.Equal(t, "car|version=2,foot|version=1", loaded.Profiles)
	require.NoError(t, loaded.Check(m))
}

func TestSnapshot_CheckMismatch(t *testing.T) {
	m := buildManager(t, "car,foot")
	snap := TakeSnapshot(m)

	t.Run("different profiles", func(t *testing.T) {
		other := buildManager(t, "car")
		require.ErrorIs(t, snap.Check(other), errs.ErrVersionMismatch)
	})

	t.Run("tampered fingerprint", func(t *testing.T) {
		bad := snap
		bad.Fingerprint++
		require.ErrorIs(t, bad.Check(m), errs.ErrVersionMismatch)
	})
}

func TestLoadSnapshot_Invalid(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := LoadSnapshot(bytes.NewReader([]byte("not msgpack at all")))
		require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
	})

	t.Run("unsupported format version", func(t *testing.T) {
		snap := TakeSnapshot(buildManager(t, ""))
		snap.FormatVersion = SnapshotVersion + 1

		var buf bytes.Buffer
		require.NoError(t, snap.Save(&buf))
		_, err := LoadSnapshot(&buf)
		require.ErrorIs(t, err, errs.ErrVersionMismatch)
	})
}

func TestFlagStream_Roundtrip(t *testing.T) {
	edges := []*props.EdgeInts{
		{Words: []uint32{0x0000_0001, 0xdead_beef}},
		{Words: []uint32{0, 0}},
		{Words: []uint32{^uint32(0), 0x7fff_ffff}},
	}

	for _, ctype := range []compress.Type{compress.None, compress.Zstd, compress.S2, compress.LZ4} {
		t.Run(ctype.String(), func(t *testing.T) {
			var buf bytes.Buffer
			fw, err := NewFlagWriter(&buf, 2, ctype)
			require.NoError(t, err)
			for _, edge := range edges {
				require.NoError(t, fw.Append(edge))
			}
			require.NoError(t, fw.Close())

			fr, err := NewFlagReader(&buf)
			require.NoError(t, err)
			require.Equal(t, 2, fr.WordsPerEdge())
			require.Equal(t, len(edges), fr.Count())

			for _, want := range edges {
				got, err := fr.Next()
				require.NoError(t, err)
				require.Equal(t, want.Words, got.Words)
			}
			_, err = fr.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestFlagStream_Empty(t *testing.T) {
	var buf bytes.Buffer
	fw, err := NewFlagWriter(&buf, 1, compress.None)
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	fr, err := NewFlagReader(&buf)
	require.NoError(t, err)
	require.Equal(t, 0, fr.Count())
	_, err = fr.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestFlagWriter_Errors(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewFlagWriter(&buf, 0, compress.None)
	require.ErrorIs(t, err, errs.ErrInvalidFlagStream)

	fw, err := NewFlagWriter(&buf, 2, compress.None)
	require.NoError(t, err)

	err = fw.Append(props.NewEdgeInts(3))
	require.ErrorIs(t, err, errs.ErrInvalidFlagStream)

	require.NoError(t, fw.Close())
	err = fw.Append(props.NewEdgeInts(2))
	require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	// Closing twice is a no-op.
	require.NoError(t, fw.Close())
}

func TestFlagReader_Errors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := NewFlagReader(bytes.NewReader([]byte{0x00, 0x00, 0x01, 0x01, 0x00}))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewFlagReader(bytes.NewReader([]byte{0x10}))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})

	t.Run("unsupported version", func(t *testing.T) {
		header := binary.LittleEndian.AppendUint16(nil, flagStreamMagic)
		header = append(header, flagStreamVersion+1, byte(compress.None), 0, 0, 0)
		_, err := NewFlagReader(bytes.NewReader(header))
		require.ErrorIs(t, err, errs.ErrVersionMismatch)
	})

	t.Run("absurd words per edge", func(t *testing.T) {
		// The width field must be bounded before any buffer is sized from
		// it; an enormous value is a corrupted header, not an allocation.
		data := binary.LittleEndian.AppendUint16(nil, flagStreamMagic)
		data = append(data, flagStreamVersion, byte(compress.None))
		data = appendUvarint(data, uint64(1)<<63)
		data = appendUvarint(data, 0)
		data = appendUvarint(data, 0)

		_, err := NewFlagReader(bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})

	t.Run("zero words per edge", func(t *testing.T) {
		data := binary.LittleEndian.AppendUint16(nil, flagStreamMagic)
		data = append(data, flagStreamVersion, byte(compress.None))
		data = appendUvarint(data, 0)
		data = appendUvarint(data, 0)
		data = appendUvarint(data, 0)

		_, err := NewFlagReader(bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})

	t.Run("count exceeds payload", func(t *testing.T) {
		// One word per edge needs at least one payload byte per edge; a
		// count the payload cannot hold is rejected up front.
		data := binary.LittleEndian.AppendUint16(nil, flagStreamMagic)
		data = append(data, flagStreamVersion, byte(compress.None))
		data = appendUvarint(data, 1)
		data = appendUvarint(data, 100)
		data = appendUvarint(data, 2)
		data = append(data, 0, 0)

		_, err := NewFlagReader(bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})

	t.Run("truncated payload", func(t *testing.T) {
		var buf bytes.Buffer
		fw, err := NewFlagWriter(&buf, 1, compress.None)
		require.NoError(t, err)
		require.NoError(t, fw.Append(props.NewEdgeInts(1)))
		require.NoError(t, fw.Close())

		data := buf.Bytes()
		_, err = NewFlagReader(bytes.NewReader(data[:len(data)-1]))
		require.ErrorIs(t, err, errs.ErrInvalidFlagStream)
	})
}

func TestLayoutJSON(t *testing.T) {
	m := buildManager(t, "car")

	data, err := LayoutJSON(m)
	require.NoError(t, err)

	var info LayoutInfo
	require.NoError(t, json.Unmarshal(data, &info))

	require.Equal(t, m.FlagBytes(), info.FlagBytes)
	require.Equal(t, m.UsedBits(), info.UsedBits)
	require.Len(t, info.Profiles, 1)
	require.Equal(t, "car", info.Profiles[0].Name)
	require.Equal(t, 2, info.Profiles[0].NodeBits)

	require.Equal(t, "roundabout", info.Properties[0].Name)
	require.Equal(t, "boolean", info.Properties[0].Kind)
	require.Equal(t, 0, info.Properties[0].Offset)
}
