package hierarchy

import (
	"errors"
	"fmt"
)

var ErrInvalidColorMode = errors.New("invalid color mode")

// ColorMode selects how a downstream exporter colors points. It has no
// effect on addressing; it is decoded here because export configuration
// rides in the same documents as the structure configuration.
type ColorMode int

const (
	ColorNone ColorMode = iota
	ColorRGB
	ColorIntensity
	ColorTile
)

func (m ColorMode) String() string {
	switch m {
	case ColorNone:
		return "none"
	case ColorRGB:
		return "rgb"
	case ColorIntensity:
		return "intensity"
	case ColorTile:
		return "tile"
	default:
		return "unknown"
	}
}

// ParseColorMode maps a configuration string to its mode, naming the
// offending string when it matches no known mode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "none":
		return ColorNone, nil
	case "rgb":
		return ColorRGB, nil
	case "intensity":
		return ColorIntensity, nil
	case "tile":
		return ColorTile, nil
	default:
		return ColorNone, fmt.Errorf("%w: %q", ErrInvalidColorMode, s)
	}
}
