package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"frel/internal/config"
)

func newConfigCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "frel.toml")
	data := "[compile]\nmax_nesting_depth = 8\nstrict_unknown_refs = false\nknown_fragments = [\"nav\"]\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "page.frel")
	if err := os.WriteFile(src, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, from, err := loadConfig(newConfigCmd(t, map[string]string{"max-depth": "4", "known": "footer"}), src)
	if err != nil {
		t.Fatal(err)
	}
	if from != cfgPath {
		t.Fatalf("config source = %q, want %q", from, cfgPath)
	}
	if cfg.MaxNestingDepth != 4 {
		t.Errorf("flag should override file: depth = %d", cfg.MaxNestingDepth)
	}
	if cfg.StrictUnknownRefs {
		t.Error("file value for strict_unknown_refs lost")
	}
	if len(cfg.KnownFragments) != 2 || cfg.KnownFragments[0] != "nav" || cfg.KnownFragments[1] != "footer" {
		t.Errorf("known fragments = %v", cfg.KnownFragments)
	}
}

func TestLoadConfigNoConfig(t *testing.T) {
	cfg, from, err := loadConfig(newConfigCmd(t, map[string]string{"no-config": "true", "error-mode": "fail-fast"}), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if from != "" {
		t.Fatalf("unexpected config source %q", from)
	}
	if cfg.ErrorMode != config.FailFast || cfg.MaxNestingDepth != config.DefaultMaxNestingDepth {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cmd := newConfigCmd(t, map[string]string{"no-config": "true", "max-depth": "0"})
	if _, _, err := loadConfig(cmd, "."); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	cmd = newConfigCmd(t, map[string]string{"no-config": "true", "error-mode": "sometimes"})
	if _, _, err := loadConfig(cmd, "."); err == nil {
		t.Fatal("expected error for unknown error mode")
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != 0 {
		t.Fatal("nil error should exit 0")
	}
	if exitCode(&exitError{code: 3}) != 3 {
		t.Fatal("exitError code lost")
	}
	if exitCode(errors.New("boom")) != 1 {
		t.Fatal("plain error should exit 1")
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{" ON ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if !uiModeOn.enabled() || uiModeOff.enabled() {
		t.Fatal("explicit ui modes ignored")
	}

	var m uiMode
	if err := m.Set("OFF"); err != nil || m != uiModeOff {
		t.Fatalf("Set: %q, %v", m, err)
	}
	if err := m.Set("loud"); err == nil {
		t.Fatal("Set accepted an unknown mode")
	}
	if m.String() != "off" {
		t.Fatalf("failed Set changed the value to %q", m.String())
	}
}
