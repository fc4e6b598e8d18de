package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives trace events. Emit must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go. ModeBoth is ModeStream|ModeRing.
type StorageMode uint8

const (
	ModeStream StorageMode = 1 << iota // immediate write
	ModeRing                           // circular buffer, dumped on failure
	ModeBoth   = ModeStream | ModeRing
)

var modeNames = map[string]StorageMode{"stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

func (m StorageMode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode // 0 means ModeStream
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" for stderr
	RingSize   int       // 0 means 4096
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if cfg.Mode&^ModeBoth != 0 {
		return nil, fmt.Errorf("unknown storage mode: %d", cfg.Mode)
	}

	var sinks []Tracer
	if cfg.Mode&ModeStream != 0 {
		st, err := openStream(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, st)
	}
	if cfg.Mode&ModeRing != 0 {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		sinks = append(sinks, NewRingTracer(size, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return &fanout{sinks: sinks, level: cfg.Level}, nil
}

func openStream(cfg Config) (*StreamTracer, error) {
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if ext := filepath.Ext(cfg.OutputPath); ext == ".ndjson" || ext == ".json" {
			format = FormatNDJSON
		}
	}
	switch {
	case cfg.Output != nil:
		return NewStreamTracer(cfg.Output, cfg.Level, format), nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return NewStreamTracer(os.Stderr, cfg.Level, format), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	st := NewStreamTracer(f, cfg.Level, format)
	st.closer = f
	return st, nil
}

// RingOf returns the ring buffer behind t, or nil.
func RingOf(t Tracer) *RingTracer {
	switch v := t.(type) {
	case *RingTracer:
		return v
	case *fanout:
		for _, s := range v.sinks {
			if r, ok := s.(*RingTracer); ok {
				return r
			}
		}
	}
	return nil
}

// fanout copies every event to each sink; sinks restamp Seq independently.
type fanout struct {
	sinks []Tracer
	level Level
}

func (f *fanout) Emit(ev *Event) {
	for _, s := range f.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (f *fanout) Flush() error { return f.each(Tracer.Flush) }
func (f *fanout) Close() error { return f.each(Tracer.Close) }
func (f *fanout) Level() Level { return f.level }
func (f *fanout) Enabled() bool {
	return f.level > LevelOff
}

func (f *fanout) each(op func(Tracer) error) error {
	errs := make([]error, 0, len(f.sinks))
	for _, s := range f.sinks {
		errs = append(errs, op(s))
	}
	return errors.Join(errs...)
}
