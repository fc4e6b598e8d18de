package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are searched, in order, by Find.
var FileNames = []string{"frel.toml", "frel.yaml", "frel.yml"}

// compileTable mirrors the [compile] table; pointer fields tell "unset" from zero.
type compileTable struct {
	StrictUnknownRefs *bool    `toml:"strict_unknown_refs" yaml:"strict_unknown_refs"`
	MaxNestingDepth   *uint32  `toml:"max_nesting_depth" yaml:"max_nesting_depth"`
	MaxBlobSize       *uint32  `toml:"max_blob_size" yaml:"max_blob_size"`
	ErrorMode         *string  `toml:"error_mode" yaml:"error_mode"`
	KnownFragments    []string `toml:"known_fragments" yaml:"known_fragments"`
	Name              *string  `toml:"name" yaml:"name"`
}

type fileConfig struct {
	Compile compileTable `toml:"compile" yaml:"compile"`
}

// Load reads a config file; the format follows the extension (.toml, .yaml,
// .yml). Unset keys keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = ParseTOML(data)
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func ParseTOML(data []byte) (Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return fc.Compile.apply(Default())
}

func ParseYAML(data []byte) (Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fc.Compile.apply(Default())
}

func (t compileTable) apply(cfg Config) (Config, error) {
	if t.StrictUnknownRefs != nil {
		cfg.StrictUnknownRefs = *t.StrictUnknownRefs
	}
	if t.MaxNestingDepth != nil {
		cfg.MaxNestingDepth = *t.MaxNestingDepth
	}
	if t.MaxBlobSize != nil {
		cfg.MaxBlobSize = *t.MaxBlobSize
	}
	if t.ErrorMode != nil {
		mode, err := ParseErrorMode(*t.ErrorMode)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		cfg.ErrorMode = mode
	}
	if t.KnownFragments != nil {
		cfg.KnownFragments = append([]string(nil), t.KnownFragments...)
	}
	if t.Name != nil {
		cfg.Name = *t.Name
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find walks up from startDir looking for one of FileNames.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// EncodeTOML writes cfg as a [compile] table.
func EncodeTOML(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(struct {
		Compile Config `toml:"compile"`
	}{cfg}); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}
