package core

import "fmt"

// Spec identifies the protocol rule set a chain runs under. A chain instance
// has exactly one Spec for its entire lifetime; there is no per-block fork
// schedule. Specs are ordered, so `spec >= London` style comparisons select
// the header shape a version requires.
type Spec int

const (
	Frontier Spec = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier
	Berlin
	London
	ArrowGlacier
	GrayGlacier
	Merge
	Shanghai
	Cancun
)

// AtLeast returns whether s includes the rules introduced by other.
func (s Spec) AtLeast(other Spec) bool {
	return s >= other
}

// String returns the canonical fork name of the spec.
func (s Spec) String() string {
	switch s {
	case Frontier:
		return "Frontier"
	case Homestead:
		return "Homestead"
	case TangerineWhistle:
		return "TangerineWhistle"
	case SpuriousDragon:
		return "SpuriousDragon"
	case Byzantium:
		return "Byzantium"
	case Constantinople:
		return "Constantinople"
	case Petersburg:
		return "Petersburg"
	case Istanbul:
		return "Istanbul"
	case MuirGlacier:
		return "MuirGlacier"
	case Berlin:
		return "Berlin"
	case London:
		return "London"
	case ArrowGlacier:
		return "ArrowGlacier"
	case GrayGlacier:
		return "GrayGlacier"
	case Merge:
		return "Merge"
	case Shanghai:
		return "Shanghai"
	case Cancun:
		return "Cancun"
	default:
		return fmt.Sprintf("Spec(%d)", int(s))
	}
}
