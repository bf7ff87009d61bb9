package colors

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Gradient endpoints for distance coloring. Blue for leaves close to
// the root, red for the most distant, blended in Lab space so the
// midpoints stay perceptually even.
var (
	gradientNear = mustHex("#2166AC")
	gradientFar  = mustHex("#B2182B")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Ramp maps a normalized position t in [0,1] onto the distance
// gradient and returns uppercase "#RRGGBB" hex. Values outside [0,1]
// are clamped.
func Ramp(t float64) string {
	// Exact endpoints; Lab round-tripping can shift them by one step.
	if t <= 0 {
		return "#2166AC"
	}
	if t >= 1 {
		return "#B2182B"
	}
	return strings.ToUpper(gradientNear.BlendLab(gradientFar, t).Clamped().Hex())
}
