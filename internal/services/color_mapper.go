package services

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// NoDataColor marks districts without any reachable stop.
const NoDataColor = "#000000"

var (
	gradientStart = colorful.Color{R: 0, G: 128.0 / 255.0, B: 0} // green
	gradientEnd   = colorful.Color{R: 1, G: 0, B: 0}             // red
)

// ColorMapper maps durations in [1, maxDuration] onto a green to red gradient.
// The gradient is interpolated in HSL, passing through yellow.
type ColorMapper struct {
	colors []string
}

func NewColorMapper(maxDuration int) *ColorMapper {
	if maxDuration < 1 {
		panic(fmt.Sprintf("color mapper: max duration must be positive, got %d", maxDuration))
	}

	h0, s0, l0 := gradientStart.Hsl()
	h1, s1, l1 := gradientEnd.Hsl()

	colors := make([]string, maxDuration)
	for i := range colors {
		t := 0.0
		if maxDuration > 1 {
			t = float64(i) / float64(maxDuration-1)
		}
		c := colorful.Hsl(
			h0+(h1-h0)*t,
			s0+(s1-s0)*t,
			l0+(l1-l0)*t,
		)
		colors[i] = c.Hex()
	}

	return &ColorMapper{colors: colors}
}

// Len is the number of gradient steps, equal to the configured max duration.
func (m *ColorMapper) Len() int { return len(m.colors) }

// ColorFor returns the hex color for duration. Durations outside [1, Len()]
// are a caller bug.
func (m *ColorMapper) ColorFor(duration int) string {
	if duration < 1 || duration > len(m.colors) {
		panic(fmt.Sprintf("color mapper: duration %d outside [1, %d]", duration, len(m.colors)))
	}
	return m.colors[duration-1]
}

// ColorForOptional maps an absent duration to NoDataColor.
func (m *ColorMapper) ColorForOptional(duration *int) string {
	if duration == nil {
		return NoDataColor
	}
	return m.ColorFor(*duration)
}
