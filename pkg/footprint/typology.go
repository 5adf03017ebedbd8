// Package footprint synthesizes the closed boundary and hole curves for
// the six massing typologies (I, L, H, U, D, O). Each typology has a
// feasibility guard over the footprint dimensions; when the guard fails
// the builder reports "no footprint" as an ordinary value, not an error.
package footprint

import (
	"fmt"
	"strings"
)

// Typology enumerates the supported footprint topologies.
type Typology int

const (
	TypologyI Typology = iota // solid rectangular bar
	TypologyL                 // two bars meeting at a corner
	TypologyH                 // two bars bridged at mid-length
	TypologyU                 // open ring, rounded closed end
	TypologyD                 // rounded bar with one interior void
	TypologyO                 // elliptical annulus
)

func (t Typology) String() string {
	switch t {
	case TypologyI:
		return "I"
	case TypologyL:
		return "L"
	case TypologyH:
		return "H"
	case TypologyU:
		return "U"
	case TypologyD:
		return "D"
	case TypologyO:
		return "O"
	default:
		return "unknown"
	}
}

// ParseTypology converts a one-letter code to a Typology.
func ParseTypology(s string) (Typology, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I":
		return TypologyI, nil
	case "L":
		return TypologyL, nil
	case "H":
		return TypologyH, nil
	case "U":
		return TypologyU, nil
	case "D":
		return TypologyD, nil
	case "O":
		return TypologyO, nil
	}
	return 0, fmt.Errorf("footprint: unknown typology %q, expected I, L, H, U, D or O", s)
}

// Violation describes one failed feasibility condition.
type Violation struct {
	Guard   string `json:"guard"`
	Message string `json:"message"`
}

// Check reports every feasibility condition the given configuration
// violates. An empty result means the typology can be built.
func Check(typ Typology, length, width, depth float64) []Violation {
	var vs []Violation

	dims := []struct {
		name string
		v    float64
	}{{"length", length}, {"width", width}, {"depth", depth}}
	for _, d := range dims {
		if d.v <= 0 {
			vs = append(vs, Violation{
				Guard:   d.name + " > 0",
				Message: fmt.Sprintf("%s is %.4f, must be positive", d.name, d.v),
			})
		}
	}
	if len(vs) > 0 {
		return vs
	}

	requireWidthDepth := func(factor float64) {
		if width <= factor*depth {
			vs = append(vs, Violation{
				Guard:   fmt.Sprintf("width > %g*depth", factor),
				Message: fmt.Sprintf("width %.4f leaves no room for a depth of %.4f in typology %s", width, depth, typ),
			})
		}
	}
	requireLengthDepth := func(factor float64) {
		if length <= factor*depth {
			vs = append(vs, Violation{
				Guard:   fmt.Sprintf("length > %g*depth", factor),
				Message: fmt.Sprintf("length %.4f leaves no room for a depth of %.4f in typology %s", length, depth, typ),
			})
		}
	}

	switch typ {
	case TypologyI:
		// Always feasible at positive dimensions.
	case TypologyL:
		requireWidthDepth(1)
		requireLengthDepth(1)
	case TypologyH:
		requireWidthDepth(2)
		requireLengthDepth(1)
	case TypologyU:
		requireWidthDepth(2)
		requireLengthDepth(1)
	case TypologyD, TypologyO:
		requireWidthDepth(2)
		requireLengthDepth(2)
	}
	return vs
}

// Feasible reports whether the typology can be built at these dimensions.
func Feasible(typ Typology, length, width, depth float64) bool {
	return len(Check(typ, length, width, depth)) == 0
}
