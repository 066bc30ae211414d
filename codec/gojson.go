package codec

import gojson "github.com/goccy/go-json"

// GoJSON is the default payload codec. Its output is byte-compatible with
// JSON for vector matrices and edge lists.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (GoJSON) Name() string { return "go-json" }

// Append encodes v after dst. Large edge lists are written straight into
// the caller's buffer instead of an intermediate slice.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	var buf appendWriter = dst
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder terminates every value with a newline.
	return buf[:len(buf)-1], nil
}

type appendWriter []byte

func (w *appendWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
