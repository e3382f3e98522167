package hostup

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// KernelConfigLocator ensures a kernel build-config file is discoverable at
// the path the sidecar daemons expect: <headers dir>/.config, where the
// headers directory follows the distribution family's packaging layout.
// When the file is missing it is copied from the boot partition's
// config-<release>; when that is also absent (e.g. inside a minimal test
// container) a multi-line advisory is emitted and bring-up proceeds.
type KernelConfigLocator struct {
	// UsrSrc and Boot default to /usr/src and /boot; overridable for tests.
	UsrSrc string
	Boot   string

	log zerolog.Logger
}

// NewKernelConfigLocator returns a locator using the standard host paths.
func NewKernelConfigLocator(log zerolog.Logger) *KernelConfigLocator {
	return &KernelConfigLocator{log: log}
}

func (l *KernelConfigLocator) usrSrc() string {
	if l.UsrSrc != "" {
		return l.UsrSrc
	}
	return "/usr/src"
}

func (l *KernelConfigLocator) boot() string {
	if l.Boot != "" {
		return l.Boot
	}
	return "/boot"
}

// headersDir computes the expected kernel headers directory for the
// distribution family, or "" when the family has no known layout.
func (l *KernelConfigLocator) headersDir(distro, release string) string {
	switch FamilyOf(distro) {
	case FamilyDebian:
		return filepath.Join(l.usrSrc(), "linux-headers-"+release)
	case FamilyRHEL:
		return filepath.Join(l.usrSrc(), "kernels", release)
	default:
		return ""
	}
}

// Ensure makes the kernel config visible at the expected destination.
// It never fails the run; all problems are logged as advisories.
func (l *KernelConfigLocator) Ensure(distro, release string) {
	headers := l.headersDir(distro, release)
	if headers == "" {
		l.log.Warn().Str("distro", distro).
			Msg("unsupported distro, skipping kernel config placement")
		return
	}

	dst := filepath.Join(headers, ".config")
	if _, err := os.Stat(dst); err == nil {
		l.checkUserNamespaceSupport(dst)
		return
	}

	src := filepath.Join(l.boot(), "config-"+release)
	if _, err := os.Stat(src); err != nil {
		l.log.Warn().
			Str("expected", dst).
			Str("fallback", src).
			Msg("kernel config not found and no boot partition copy available;\n" +
				"the sidecar daemons expect a kernel config at the path above.\n" +
				"Install the kernel headers package for the running kernel, or\n" +
				"place a copy of the build config at the expected destination.")
		return
	}

	if err := copyFile(src, dst); err != nil {
		l.log.Warn().Err(err).Str("src", src).Str("dst", dst).
			Msg("could not copy kernel config")
		return
	}
	l.log.Info().Str("src", src).Str("dst", dst).Msg("kernel config copied")
	l.checkUserNamespaceSupport(dst)
}

// checkUserNamespaceSupport parses the located config and warns when the
// kernel was built without user namespace support. Without this check a
// kernel that disallows unprivileged namespaces would only surface later
// as a generic daemon readiness timeout.
func (l *KernelConfigLocator) checkUserNamespaceSupport(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	if !configEnabled(f, "USER_NS") {
		l.log.Warn().Str("config", path).
			Msg("kernel config has no CONFIG_USER_NS=y; managed containers need user namespace support")
	}
}

// configEnabled reports whether CONFIG_<key> is set to y or m in a kernel
// build config.
func configEnabled(r io.Reader, key string) bool {
	want := "CONFIG_" + key
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 || parts[0] != want {
			continue
		}
		return parts[1] == "y" || parts[1] == "m"
	}

	return false
}

// copyFile copies src to dst, creating dst's directory as needed.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
