package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of an edge frame.
type Compression uint8

const (
	// CompressionNone stores the block as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ParseCompression maps a name from String back to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("codec: unknown compression %q", name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block layout: [uncompressed u32][compressed u32][data]. A compressed size
// of 0 means the data is stored.
const blockHeaderSize = 8

// maxRatio is the compressed/raw size above which the block is stored instead.
const maxRatio = 0.9

func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4: %w", err)
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", c)
	}

	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*maxRatio {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(packed)))
	return append(dst, packed...), nil
}

// maxLZ4Ratio bounds the expansion of an LZ4 block.
const maxLZ4Ratio = 255

// readBlock decodes one block of exactly want raw bytes and returns it with
// the bytes consumed. The size is checked before anything is allocated.
func readBlock(data []byte, c Compression, want uint32) ([]byte, int, error) {
	if len(data) < blockHeaderSize {
		return nil, 0, fmt.Errorf("%w: block header truncated", ErrCorruptFrame)
	}
	rawSize := binary.LittleEndian.Uint32(data[0:])
	packedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	if rawSize != want {
		return nil, 0, fmt.Errorf("%w: block holds %d bytes, header expects %d", ErrCorruptFrame, rawSize, want)
	}

	if packedSize == 0 {
		if uint64(len(body)) < uint64(rawSize) {
			return nil, 0, fmt.Errorf("%w: stored block truncated", ErrCorruptFrame)
		}
		return body[:rawSize], blockHeaderSize + int(rawSize), nil
	}

	if uint64(len(body)) < uint64(packedSize) {
		return nil, 0, fmt.Errorf("%w: compressed block truncated", ErrCorruptFrame)
	}
	packed := body[:packedSize]

	var out []byte
	switch c {
	case CompressionLZ4:
		if uint64(rawSize) > uint64(packedSize)*maxLZ4Ratio {
			return nil, 0, fmt.Errorf("%w: lz4 block expands beyond %dx", ErrCorruptFrame, maxLZ4Ratio)
		}
		out = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(packed, out)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: lz4: %v", ErrCorruptFrame, err)
		}
		if uint32(n) != rawSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptFrame)
		}
	case CompressionZSTD:
		// Grow with the decoded data rather than trusting rawSize up front.
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(packed, make([]byte, 0, min(int(rawSize), 4*len(packed))))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: zstd: %v", ErrCorruptFrame, err)
		}
		if uint32(len(decoded)) != rawSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptFrame)
		}
		out = decoded
	default:
		return nil, 0, fmt.Errorf("%w: compressed block without codec", ErrCorruptFrame)
	}

	return out, blockHeaderSize + int(packedSize), nil
}
