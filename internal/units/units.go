// Package units converts raw route distances into display units.
package units

// System identifies a display unit system.
type System int

// Supported display systems.
const (
	Kilometre System = iota
	Mile
)

// Conversion factors applied to the raw distance magnitude (metres).
const (
	kilometresPerMetre = 0.001
	milesPerMetre      = 0.000621371
)

// String returns the display unit name.
func (s System) String() string {
	switch s {
	case Kilometre:
		return "kilometre"
	case Mile:
		return "mile"
	default:
		return "unknown"
	}
}

// Convert scales distance into the given system. Any integer is accepted,
// including zero and negative values.
func Convert(distance int, system System) float64 {
	if system == Mile {
		return float64(distance) * milesPerMetre
	}
	return float64(distance) * kilometresPerMetre
}
