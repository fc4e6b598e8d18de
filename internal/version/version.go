package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build information for frelc, overridable with -ldflags "-X".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component in its own colour.
// Colour output follows color.NoColor.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Describe returns the multi-line `frelc version` output. firVersion is the
// blob format version the binary writes.
func Describe(firVersion uint16) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frelc %s (FIR v%d)\n", Colored(), firVersion)
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit: %s", GitCommit)
		if GitMessage != "" {
			fmt.Fprintf(&sb, " (%s)", GitMessage)
		}
		sb.WriteByte('\n')
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", BuildDate)
	}
	return sb.String()
}
