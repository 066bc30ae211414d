// Package codec encodes kernel payloads for hosts.
//
// Two formats live here: text codecs (JSON via the standard library or
// github.com/goccy/go-json) for vector matrices and edge lists, and a compact
// binary edge frame with optional LZ4 or ZSTD compression and a CRC32C
// checksum. The frame layout is a compatibility boundary; changing it breaks
// stored frames.
package codec

import (
	"fmt"

	"github.com/invariant-sdk/kernel/crystal"
)

// Codec is a text codec for kernel payloads. Implementations must be safe
// for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Appender is implemented by codecs that can encode into a caller buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// ByName returns a built-in codec by its config name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// DecodeVectors parses a vector matrix such as [[1,0],[0,1]]. A null
// payload decodes to an empty matrix.
func DecodeVectors(c Codec, data []byte) ([][]float32, error) {
	var vectors [][]float32
	if err := c.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("codec %s: decode vectors: %w", c.Name(), err)
	}
	return vectors, nil
}

// AppendEdges encodes edges as a JSON array followed by a newline. An empty
// edge list is written as [] rather than null.
func AppendEdges(dst []byte, c Codec, edges []crystal.Edge) ([]byte, error) {
	if edges == nil {
		edges = []crystal.Edge{}
	}
	if a, ok := c.(Appender); ok {
		out, err := a.Append(dst, edges)
		if err != nil {
			return nil, fmt.Errorf("codec %s: encode edges: %w", c.Name(), err)
		}
		return append(out, '\n'), nil
	}
	b, err := c.Marshal(edges)
	if err != nil {
		return nil, fmt.Errorf("codec %s: encode edges: %w", c.Name(), err)
	}
	dst = append(dst, b...)
	return append(dst, '\n'), nil
}
