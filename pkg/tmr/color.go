package tmr

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Entity colors share saturation, lightness and alpha; only the hue varies.
const (
	entitySaturation = "80%"
	entityLightness  = "50%"
	entityAlpha      = "0.3"

	// maxIntegerHues is the number of entities that can be told apart with
	// whole-degree hues.
	maxIntegerHues = 360
)

// AssignColors gives each id a distinct hue spread evenly over the color
// wheel, in iteration order: hue(i) = floor(360*i/N). Graphs with more
// than 360 entities use fractional hues so colors stay distinct.
func AssignColors(ids []string) map[string]string {
	colors := make(map[string]string, len(ids))
	n := len(ids)
	for i, id := range ids {
		colors[id] = entityColor(i, n)
	}
	return colors
}

func entityColor(i, n int) string {
	var hue string
	if n <= maxIntegerHues {
		hue = strconv.Itoa(360 * i / n)
	} else {
		hue = strconv.FormatFloat(360*float64(i)/float64(n), 'f', -1, 64)
	}
	return fmt.Sprintf("hsla(%s,%s,%s,%s)", hue, entitySaturation, entityLightness, entityAlpha)
}

// RejectedColor is the neutral, nearly transparent color used for a
// rejected word at flat position pos.
func RejectedColor(pos int) string {
	return fmt.Sprintf("hsla(%d,0%%,50%%,0.1)", pos)
}

// HSLA is a parsed display color. S and L are percentages, A is in [0,1].
type HSLA struct {
	H, S, L, A float64
}

var hslaRe = regexp.MustCompile(`^hsla\(\s*(-?[\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*,\s*([\d.]+)\s*\)$`)

// ParseHSLA parses a color produced by AssignColors or RejectedColor.
func ParseHSLA(s string) (HSLA, bool) {
	m := hslaRe.FindStringSubmatch(s)
	if m == nil {
		return HSLA{}, false
	}
	var c HSLA
	for i, dst := range []*float64{&c.H, &c.S, &c.L, &c.A} {
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return HSLA{}, false
		}
		*dst = f
	}
	return c, true
}

// Hex returns the opaque "#rrggbb" color seen when c is drawn over white.
func (c HSLA) Hex() string {
	base := colorful.Hsl(c.H, c.S/100, c.L/100)
	white := colorful.Color{R: 1, G: 1, B: 1}
	return white.BlendRgb(base, c.A).Clamped().Hex()
}
