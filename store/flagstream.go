package store

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mus-format/mus-go/varint"

	"github.com/roadpack/roadpack/compress"
	"github.com/roadpack/roadpack/errs"
	"github.com/roadpack/roadpack/props"
)

// Flag stream layout: a fixed little-endian magic and version, the codec
// byte, then varints for words-per-edge, edge count and payload length,
// followed by the compressed payload. The payload is every edge buffer in
// append order, each word varint-encoded.
const (
	flagStreamMagic   uint16 = 0xEF10
	flagStreamVersion byte   = 1

	// maxWordsPerEdge bounds the words-per-edge header field. Real edge
	// buffers are a handful of words; anything past this is a corrupted or
	// hostile header, rejected before any allocation sized from it.
	maxWordsPerEdge = 1 << 16
)

// appendUvarint appends the varint encoding of v to dst.
func appendUvarint(dst []byte, v uint64) []byte {
	size := varint.Uint64.Size(v)
	dst = append(dst, make([]byte, size)...)
	varint.Uint64.Marshal(v, dst[len(dst)-size:])

	return dst
}

// FlagWriter streams fixed-width edge buffers into a compressed blob. The
// payload is buffered in memory and written on Close, when the edge count
// is known.
type FlagWriter struct {
	w       io.Writer
	words   int
	ctype   compress.Type
	codec   compress.Codec
	payload []byte
	count   uint64
	closed  bool
}

// NewFlagWriter creates a writer for buffers of wordsPerEdge words each.
func NewFlagWriter(w io.Writer, wordsPerEdge int, ctype compress.Type) (*FlagWriter, error) {
	if wordsPerEdge < 1 {
		return nil, fmt.Errorf("%w: words per edge must be positive, got %d",
			errs.ErrInvalidFlagStream, wordsPerEdge)
	}
	codec, err := compress.New(ctype)
	if err != nil {
		return nil, err
	}

	return &FlagWriter{w: w, words: wordsPerEdge, ctype: ctype, codec: codec}, nil
}

// Append adds one edge buffer to the stream.
func (fw *FlagWriter) Append(buf *props.EdgeInts) error {
	if fw.closed {
		return fmt.Errorf("%w: writer already closed", errs.ErrInvalidFlagStream)
	}
	if buf.Len() != fw.words {
		return fmt.Errorf("%w: buffer has %d words, stream expects %d",
			errs.ErrInvalidFlagStream, buf.Len(), fw.words)
	}

	for _, word := range buf.Words {
		fw.payload = appendUvarint(fw.payload, uint64(word))
	}
	fw.count++

	return nil
}

// Close compresses the payload and writes the complete stream.
func (fw *FlagWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true

	compressed, err := fw.codec.Compress(fw.payload)
	if err != nil {
		return err
	}

	header := binary.LittleEndian.AppendUint16(nil, flagStreamMagic)
	header = append(header, flagStreamVersion, byte(fw.ctype))
	header = appendUvarint(header, uint64(fw.words))
	header = appendUvarint(header, fw.count)
	header = appendUvarint(header, uint64(len(compressed)))

	if _, err := fw.w.Write(header); err != nil {
		return err
	}
	if _, err := fw.w.Write(compressed); err != nil {
		return err
	}

	return nil
}

// FlagReader iterates the edge buffers of a stream written by FlagWriter.
type FlagReader struct {
	words   int
	count   uint64
	read    uint64
	payload []byte
	offset  int
}

// NewFlagReader parses the stream header and decompresses the payload.
func NewFlagReader(r io.Reader) (*FlagReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: truncated header", errs.ErrInvalidFlagStream)
	}
	if magic := binary.LittleEndian.Uint16(data); magic != flagStreamMagic {
		return nil, fmt.Errorf("%w: bad magic %#04x", errs.ErrInvalidFlagStream, magic)
	}
	if version := data[2]; version != flagStreamVersion {
		return nil, fmt.Errorf("%w: stream version %d, supported %d",
			errs.ErrVersionMismatch, version, flagStreamVersion)
	}
	ctype := compress.Type(data[3])
	codec, err := compress.New(ctype)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFlagStream, err)
	}

	rest := data[4:]
	words, n, err := varint.Uint64.Unmarshal(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFlagStream, err)
	}
	rest = rest[n:]
	if words < 1 || words > maxWordsPerEdge {
		return nil, fmt.Errorf("%w: words per edge %d outside [1, %d]",
			errs.ErrInvalidFlagStream, words, maxWordsPerEdge)
	}
	count, n, err := varint.Uint64.Unmarshal(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFlagStream, err)
	}
	rest = rest[n:]
	plen, n, err := varint.Uint64.Unmarshal(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFlagStream, err)
	}
	rest = rest[n:]
	if uint64(len(rest)) < plen {
		return nil, fmt.Errorf("%w: payload truncated: have %d bytes, header says %d",
			errs.ErrInvalidFlagStream, len(rest), plen)
	}

	payload, err := codec.Decompress(rest[:plen])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFlagStream, err)
	}
	// Every word costs at least one payload byte, so the edge count is
	// bounded by the payload size.
	if uint64(len(payload))/words < count {
		return nil, fmt.Errorf("%w: %d edges of %d words cannot fit in %d payload bytes",
			errs.ErrInvalidFlagStream, count, words, len(payload))
	}

	return &FlagReader{words: int(words), count: count, payload: payload}, nil
}

// WordsPerEdge returns the buffer width of the stream.
func (fr *FlagReader) WordsPerEdge() int {
	return fr.words
}

// Count returns the number of edge buffers in the stream.
func (fr *FlagReader) Count() int {
	return int(fr.count)
}

// Next returns the next edge buffer, or io.EOF after the last one.
func (fr *FlagReader) Next() (*props.EdgeInts, error) {
	if fr.read == fr.count {
		return nil, io.EOF
	}

	buf := props.NewEdgeInts(fr.words)
	for i := range buf.Words {
		word, n, err := varint.Uint64.Unmarshal(fr.payload[fr.offset:])
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d word %d: %v", errs.ErrInvalidFlagStream, fr.read, i, err)
		}
		if word > uint64(^uint32(0)) {
			return nil, fmt.Errorf("%w: edge %d word %d overflows 32 bits", errs.ErrInvalidFlagStream, fr.read, i)
		}
		buf.Words[i] = uint32(word)
		fr.offset += n
	}
	fr.read++

	return buf, nil
}
