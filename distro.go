package hostup

import (
	"bufio"
	"os"
	"strings"
)

// DistroUnknown is returned when no distribution identity can be read.
// Downstream consumers treat it as "skip distro-specific action and warn".
const DistroUnknown = "unknown"

const osReleasePath = "/etc/os-release"

// Family is the coarse distribution bucket used to select host-tuning
// branches. Only the branches that actually differ are modeled.
type Family int

const (
	// FamilyUnknown covers distributions without a known tuning branch.
	FamilyUnknown Family = iota
	// FamilyDebian covers Debian and its derivatives.
	FamilyDebian
	// FamilyRHEL covers Red Hat Enterprise Linux and its derivatives.
	FamilyRHEL
)

func (f Family) String() string {
	switch f {
	case FamilyDebian:
		return "debian"
	case FamilyRHEL:
		return "rhel"
	default:
		return "unknown"
	}
}

var distroFamilies = map[string]Family{
	"debian":    FamilyDebian,
	"ubuntu":    FamilyDebian,
	"rhel":      FamilyRHEL,
	"centos":    FamilyRHEL,
	"fedora":    FamilyRHEL,
	"rocky":     FamilyRHEL,
	"almalinux": FamilyRHEL,
	"ol":        FamilyRHEL,
}

// FamilyOf buckets a distribution identity token into a [Family].
func FamilyOf(distro string) Family {
	return distroFamilies[distro]
}

// IdentifyDistro reads the host distribution identity from /etc/os-release.
// There is no failure path: any read or parse problem yields [DistroUnknown].
func IdentifyDistro() string {
	return identifyDistroFrom(osReleasePath)
}

// identifyDistroFrom extracts the ID token from an os-release style file.
// The token is returned lower-cased with surrounding quotes stripped.
func identifyDistroFrom(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return DistroUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "ID=") {
			continue
		}

		id := strings.TrimPrefix(line, "ID=")
		id = strings.Trim(id, `"'`)
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			return DistroUnknown
		}
		return id
	}

	return DistroUnknown
}
