package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring buffer only, dumped when a compile fails
	LevelPhase        // driver and files
	LevelDetail       // plus stages
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest scope each level lets through; LevelOff lets nothing through
var levelScopes = [...]Scope{
	LevelError:  ScopeStage,
	LevelPhase:  ScopeFile,
	LevelDetail: ScopeStage,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil //nolint:gosec // i < len(levelNames)
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if l == LevelOff || int(l) >= len(levelScopes) {
		return false
	}
	return scope <= levelScopes[l]
}
