package kernel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/invariant-sdk/kernel/codec"
)

// Config is the file form of the kernel options.
//
//	mode: approx
//	threshold: 0.8
//	top_k: 16
//	workers: 0
//	seed: 42
//	compression: zstd
//	codec: go-json
//	log:
//	  level: info
//	  format: text
type Config struct {
	Mode        string    `yaml:"mode"`
	Threshold   float32   `yaml:"threshold"`
	TopK        int       `yaml:"top_k"`
	Workers     int       `yaml:"workers"`
	Seed        *int64    `yaml:"seed,omitempty"`
	Compression string    `yaml:"compression"`
	Codec       string    `yaml:"codec"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Mode:        string(ModeExact),
		Threshold:   0.5,
		TopK:        DefaultTopK,
		Compression: "none",
		Codec:       codec.Default.Name(),
		Log:         LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := ParseMode(c.Mode); err != nil {
		return &ErrInvalidConfig{Field: "mode", Reason: err.Error()}
	}
	if c.TopK < 0 {
		return &ErrInvalidConfig{Field: "top_k", Reason: "must be >= 0"}
	}
	if c.Workers < 0 {
		return &ErrInvalidConfig{Field: "workers", Reason: "must be >= 0"}
	}
	if _, err := codec.ParseCompression(c.Compression); err != nil {
		return &ErrInvalidConfig{Field: "compression", Reason: err.Error()}
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		return &ErrInvalidConfig{Field: "codec", Reason: fmt.Sprintf("unknown codec %q", c.Codec)}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return &ErrInvalidConfig{Field: "log.level", Reason: err.Error()}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &ErrInvalidConfig{Field: "log.format", Reason: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// Options converts the config into Kernel options. The config must be valid.
func (c Config) Options() []Option {
	mode, _ := ParseMode(c.Mode)
	comp, _ := codec.ParseCompression(c.Compression)
	level, _ := parseLevel(c.Log.Level)

	opts := []Option{
		WithMode(mode),
		WithTopK(c.TopK),
		WithWorkers(c.Workers),
		WithCompression(comp),
		WithLogger(newWriterLogger(os.Stderr, c.Log.Format, level)),
	}
	if c.Seed != nil {
		opts = append(opts, WithSeed(*c.Seed))
	}
	return opts
}

// PayloadCodec returns the JSON codec named by the config.
func (c Config) PayloadCodec() codec.Codec {
	if cc, ok := codec.ByName(c.Codec); ok {
		return cc
	}
	return codec.Default
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}
