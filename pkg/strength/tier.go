package strength

import "fmt"

// Tier is the strength category of a password. The values are ordered by
// severity, which is only meaningful for display.
type Tier int

const (
	// Unknown is the zero value: nothing has been evaluated yet, or the
	// evaluation failed.
	Unknown Tier = iota
	Strong
	Moderate
	Weak
	Breached
)

var tierNames = map[Tier]string{
	Unknown:  "unknown",
	Strong:   "strong",
	Moderate: "moderate",
	Weak:     "weak",
	Breached: "breached",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Label is the short message shown next to a password field.
func (t Tier) Label() string {
	switch t {
	case Strong:
		return "Strong Password"
	case Moderate:
		return "Moderate Password"
	case Weak:
		return "Weak Password"
	case Breached:
		return "Leaked Password"
	}
	return "Unknown"
}

// Color of the feedback indicator.
func (t Tier) Color() string {
	switch t {
	case Strong:
		return "green"
	case Moderate:
		return "orange"
	case Weak, Breached:
		return "red"
	}
	return "gray"
}

func (t Tier) MarshalText() ([]byte, error) {
	name, ok := tierNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(name), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	for k, v := range tierNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", string(text))
}
