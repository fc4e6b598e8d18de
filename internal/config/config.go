// Package config holds compilation settings and loads them from frel.toml or
// frel.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"frel/internal/token"
)

// ErrorMode selects how the pipeline reacts to the first error.
type ErrorMode uint8

const (
	// Aggregate collects lex, parse and validation errors across the whole input.
	Aggregate ErrorMode = iota
	// FailFast stops at the first error.
	FailFast
)

func (m ErrorMode) String() string {
	if m == FailFast {
		return "fail_fast"
	}
	return "aggregate"
}

// ParseErrorMode accepts "aggregate" and "fail_fast" (also "fail-fast").
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aggregate", "":
		return Aggregate, nil
	case "fail_fast", "fail-fast", "failfast":
		return FailFast, nil
	}
	return Aggregate, fmt.Errorf("unknown error mode %q (want aggregate or fail_fast)", s)
}

func (m ErrorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ErrorMode) UnmarshalText(b []byte) error {
	v, err := ParseErrorMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

const (
	DefaultMaxNestingDepth uint32 = 64
	DefaultMaxBlobSize     uint32 = 16 << 20
)

// Config is the per-compilation configuration. The zero value is not usable;
// start from Default.
type Config struct {
	// StrictUnknownRefs turns unresolved include/call targets into errors;
	// otherwise they are warnings and encoding proceeds.
	StrictUnknownRefs bool `toml:"strict_unknown_refs" yaml:"strict_unknown_refs"`
	// MaxNestingDepth bounds directive and include nesting combined.
	MaxNestingDepth uint32 `toml:"max_nesting_depth" yaml:"max_nesting_depth"`
	// MaxBlobSize bounds the encoded FIR blob in bytes.
	MaxBlobSize uint32    `toml:"max_blob_size" yaml:"max_blob_size"`
	ErrorMode   ErrorMode `toml:"error_mode" yaml:"error_mode"`
	// KnownFragments are fragment names provided by the caller, in addition
	// to fragments defined in the source itself.
	KnownFragments []string `toml:"known_fragments" yaml:"known_fragments"`
	// Name labels the compiled source in diagnostics.
	Name string `toml:"name" yaml:"name"`
}

func Default() Config {
	return Config{
		StrictUnknownRefs: true,
		MaxNestingDepth:   DefaultMaxNestingDepth,
		MaxBlobSize:       DefaultMaxBlobSize,
		ErrorMode:         Aggregate,
		Name:              "<input>",
	}
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks limits and fragment names.
func (c Config) Validate() error {
	if c.MaxNestingDepth == 0 {
		return fmt.Errorf("%w: max_nesting_depth must be positive", ErrInvalid)
	}
	if c.MaxBlobSize < 24 {
		return fmt.Errorf("%w: max_blob_size must hold at least the 24-byte header", ErrInvalid)
	}
	if c.ErrorMode > FailFast {
		return fmt.Errorf("%w: unknown error mode %d", ErrInvalid, c.ErrorMode)
	}
	for _, name := range c.KnownFragments {
		if !ValidFragmentName(name) {
			return fmt.Errorf("%w: known fragment %q is not a valid name", ErrInvalid, name)
		}
	}
	return nil
}

// ValidFragmentName reports whether name is a non-keyword identifier.
func ValidFragmentName(name string) bool {
	if name == "" {
		return false
	}
	if _, kw := token.LookupKeyword(name); kw {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		case r >= 0x80:
		default:
			return false
		}
	}
	return true
}
