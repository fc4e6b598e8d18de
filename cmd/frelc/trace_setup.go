package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"frel/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		tf  traceFlags
		err error
	)
	if tf.output, err = pf.GetString("trace"); err != nil {
		return tf, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if tf.level, err = pf.GetString("trace-level"); err != nil {
		return tf, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if tf.mode, err = pf.GetString("trace-mode"); err != nil {
		return tf, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if tf.ringSize, err = pf.GetInt("trace-ring-size"); err != nil {
		return tf, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if tf.heartbeat, err = pf.GetDuration("trace-heartbeat"); err != nil {
		return tf, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	return tf, nil
}

// setupTracing attaches the tracer selected by the --trace* flags to the
// command context. The cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && tf.output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(tf.mode)
	if err != nil {
		return nil, err
	}
	// error keeps events in memory only, for the failure dump
	if level == trace.LevelError {
		mode = trace.ModeRing
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}, nil
}

// startHeartbeat emits periodic trace events with status() as detail when
// --trace-heartbeat is set.
func startHeartbeat(cmd *cobra.Command, status func() string) (*trace.Heartbeat, error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	return trace.StartHeartbeat(trace.FromContext(cmd.Context()), tf.heartbeat, status), nil
}

// dumpTraceRing prints the in-memory trace after a failed compile. Nothing
// happens when tracing runs without a ring buffer.
func dumpTraceRing(cmd *cobra.Command, w io.Writer) {
	ring := trace.RingOf(trace.FromContext(cmd.Context()))
	if ring == nil || ring.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "== trace: last %d events ==\n", ring.Len())
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
