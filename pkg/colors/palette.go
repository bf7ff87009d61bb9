// Package colors assigns deterministic colors to groups or leaves.
//
// Two mutually exclusive modes exist per run:
//
//   - Group mode: every group gets a color, either explicit (from the
//     relation CSV color column) or from a fixed palette cycle keyed
//     by the group's rank in sorted-group-name order. The same group
//     set always yields the same colors, independent of input order.
//   - Leaf mode (distance fallback): used only when no grouping was
//     supplied at all. Each leaf is colored by its patristic distance
//     from the root, normalized to [0,1] and mapped through a
//     blue→red ramp blended in CIE Lab space.
package colors

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/phylotree/pkg/errors"
)

// palette is the default group color cycle. The entries are the
// matplotlib tab10 colors, which is what groups got in runs without
// explicit colors before this tool existed; keeping them makes old
// and new figures comparable side by side.
var palette = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
	"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
}

// namedColors maps recognized color names to hex. CSS basic names
// plus the handful of extended names relation files use in practice.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"red":     "#FF0000",
	"green":   "#008000",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"brown":   "#A52A2A",
	"gray":    "#808080",
	"grey":    "#808080",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
	"lime":    "#00FF00",
	"navy":    "#000080",
	"teal":    "#008080",
	"olive":   "#808000",
	"maroon":  "#800000",
	"silver":  "#C0C0C0",
	"aqua":    "#00FFFF",
	"fuchsia": "#FF00FF",
}

// PaletteColor returns the palette entry for the given rank, cycling
// on exhaustion.
func PaletteColor(rank int) string {
	return palette[rank%len(palette)]
}

// Normalize validates a user-supplied color value and returns it as
// canonical uppercase "#RRGGBB" hex. Accepted inputs are 6-hex-digit
// values with a leading '#' and recognized color names.
func Normalize(value string) (string, error) {
	v := strings.TrimSpace(value)

	if hex, ok := namedColors[strings.ToLower(v)]; ok {
		return hex, nil
	}

	if !strings.HasPrefix(v, "#") || len(v) != 7 {
		return "", errors.New(errors.ErrCodeInvalidColor,
			"invalid color %q, want #RRGGBB or a recognized color name", value)
	}
	if _, err := colorful.Hex(v); err != nil {
		return "", errors.New(errors.ErrCodeInvalidColor,
			"invalid color %q, want #RRGGBB or a recognized color name", value)
	}
	return strings.ToUpper(v), nil
}
