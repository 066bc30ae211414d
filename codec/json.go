package codec

import "encoding/json"

// JSON is the standard-library payload codec.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSON) Name() string { return "json" }

// Default is the codec used when the config does not name one.
var Default Codec = GoJSON{}
