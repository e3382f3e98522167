package hostup

import "fmt"

// Mode selects how the sidecar daemons are launched.
type Mode int

const (
	// ModeNormal is the default production launch mode.
	ModeNormal Mode = iota
	// ModeTesting launches the filesystem daemon with tolerance for
	// missing host procfs nodes, for use inside minimal test containers.
	ModeTesting
)

var modeNames = map[Mode]string{
	ModeNormal:  "normal",
	ModeTesting: "testing",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps an invocation token to a [Mode].
// The empty string and "normal" select ModeNormal; "testing-on" (the
// positional form) and "testing" select ModeTesting.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return ModeNormal, nil
	case "testing", "testing-on":
		return ModeTesting, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode: %q (available: normal, testing-on)", s)
	}
}
