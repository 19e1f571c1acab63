package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/dragselect/internal/config/loader"
)

// ErrUnknownSetting is returned in strict mode when a source names a
// setting that does not exist.
var ErrUnknownSetting = errors.New("unknown setting")

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	fsys      loader.FileSystem
	envPrefix string
	noEnv     bool
	overrides map[string]any
	strict    bool
}

// WithFile adds a TOML or YAML file layer. A missing file is not an error.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithFS sets the file system used to read the config file.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fsys = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
// An empty prefix disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
		o.noEnv = prefix == ""
	}
}

// WithOverrides adds the highest-priority layer, keyed by dotted path
// ("engine.mode"). Command line flags land here.
func WithOverrides(values map[string]any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any, len(values))
		}
		for k, v := range values {
			o.overrides[k] = v
		}
	}
}

// WithStrict rejects settings that do not map onto Config.
func WithStrict() Option {
	return func(o *loadOptions) {
		o.strict = true
	}
}

// Load builds a Config from defaults, the optional file, the environment
// and overrides, in that order, and validates the result.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{
		fsys:      loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)

	if o.file != "" {
		fl, err := loader.ForPath(o.fsys, o.file)
		if err != nil {
			return Config{}, err
		}
		data, err := fl.LoadFrom(o.file)
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if !o.noEnv {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	if len(o.overrides) > 0 {
		layer := make(map[string]any)
		for path, v := range o.overrides {
			loader.SetPath(layer, path, v)
		}
		merged = loader.DeepMerge(merged, layer)
	}

	cfg, err := decode(merged, o.strict)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode applies merged on top of Default. Keys absent from merged keep
// their default values.
func decode(merged map[string]any, strict bool) (Config, error) {
	cfg := Default()
	if len(merged) == 0 {
		return cfg, nil
	}

	raw, err := toml.Marshal(merged)
	if err != nil {
		return Config{}, fmt.Errorf("encoding merged config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&cfg); err != nil {
		var missing *toml.StrictMissingError
		if errors.As(err, &missing) {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownSetting, strings.TrimSpace(missing.String()))
		}
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Format selects the encoding used by Encode.
type Format string

// Supported encodings.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat parses "toml", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml", "":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, s)
	}
}

// Encode writes cfg to w.
func Encode(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, string(format))
	}
}
