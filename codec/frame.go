package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/invariant-sdk/kernel/crystal"
	"github.com/invariant-sdk/kernel/internal/hash"
)

// Frame layout (little-endian):
//
//	magic "IKE1" | compression u8 | count u32 | crc32c u32 | block
//
// The block holds count records of (source u32, target u32, score f32). The
// checksum covers the uncompressed records.
const (
	frameMagic      = "IKE1"
	frameHeaderSize = 4 + 1 + 4 + 4
	recordSize      = 12
)

var (
	// ErrCorruptFrame is returned for frames that cannot be parsed.
	ErrCorruptFrame = errors.New("codec: corrupt edge frame")
	// ErrChecksumMismatch is returned when the records fail the CRC32C check.
	ErrChecksumMismatch = errors.New("codec: edge frame checksum mismatch")
)

// EncodeEdges serializes edges into a self-describing frame.
func EncodeEdges(edges []crystal.Edge, c Compression) ([]byte, error) {
	raw := make([]byte, 0, len(edges)*recordSize)
	for i, e := range edges {
		if e.Source < 0 || e.Target < 0 || int64(e.Source) > math.MaxUint32 || int64(e.Target) > math.MaxUint32 {
			return nil, fmt.Errorf("codec: edge %d (%d -> %d) out of uint32 range", i, e.Source, e.Target)
		}
		raw = binary.LittleEndian.AppendUint32(raw, uint32(e.Source))
		raw = binary.LittleEndian.AppendUint32(raw, uint32(e.Target))
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(e.Score))
	}

	out := make([]byte, 0, frameHeaderSize+blockHeaderSize+len(raw))
	out = append(out, frameMagic...)
	out = append(out, byte(c))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(edges)))
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(raw))
	return appendBlock(out, raw, c)
}

// DecodeEdges parses a frame produced by EncodeEdges.
func DecodeEdges(data []byte) ([]crystal.Edge, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("%w: header truncated", ErrCorruptFrame)
	}
	if string(data[:4]) != frameMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptFrame, data[:4])
	}
	c := Compression(data[4])
	if c > CompressionZSTD {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptFrame, c)
	}
	count := binary.LittleEndian.Uint32(data[5:])
	sum := binary.LittleEndian.Uint32(data[9:])

	want := uint64(count) * recordSize
	if want > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d records exceed the block size limit", ErrCorruptFrame, count)
	}

	raw, n, err := readBlock(data[frameHeaderSize:], c, uint32(want))
	if err != nil {
		return nil, err
	}
	if frameHeaderSize+n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptFrame, len(data)-frameHeaderSize-n)
	}
	if hash.CRC32C(raw) != sum {
		return nil, ErrChecksumMismatch
	}

	if count == 0 {
		return nil, nil
	}
	edges := make([]crystal.Edge, count)
	for i := range edges {
		rec := raw[i*recordSize:]
		edges[i] = crystal.Edge{
			Source: int(binary.LittleEndian.Uint32(rec[0:])),
			Target: int(binary.LittleEndian.Uint32(rec[4:])),
			Score:  math.Float32frombits(binary.LittleEndian.Uint32(rec[8:])),
		}
	}
	return edges, nil
}
