package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui. It implements pflag.Value so cobra rejects
// bad values while parsing flags.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.TrimSpace(strings.ToLower(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m *uiMode) String() string {
	if *m == "" {
		return string(uiModeAuto)
	}
	return string(*m)
}

func (m *uiMode) Set(value string) error {
	parsed, err := readUIMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m *uiMode) Type() string { return "mode" }

// enabled resolves auto against stdout.
func (m uiMode) enabled() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}
