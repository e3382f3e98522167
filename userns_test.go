package hostup

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigureUserNamespaces_Debian(t *testing.T) {
	for _, distro := range []string{"debian", "ubuntu"} {
		t.Run(distro, func(t *testing.T) {
			ft := newFakeTunables(nil)

			ConfigureUserNamespaces(ft, distro, zerolog.Nop())

			if got := ft.writes[usernsCloneKey]; got != "1" {
				t.Errorf("wrote %q to %s, want %q", got, usernsCloneKey, "1")
			}
			if len(ft.writes) != 1 {
				t.Errorf("wrote %d tunables, want 1: %v", len(ft.writes), ft.writes)
			}
		})
	}
}

func TestConfigureUserNamespaces_RHEL(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		wantWrite bool
	}{
		{"below floor raised", "4096", true},
		{"zero raised", "0", true},
		{"at floor untouched", "10000", false},
		{"above floor untouched", "65536", false},
		{"non-numeric untouched", "unlimited", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTunables(map[string]string{maxUserNamespacesKey: tt.current})

			ConfigureUserNamespaces(ft, "centos", zerolog.Nop())

			if tt.wantWrite {
				if got := ft.writes[maxUserNamespacesKey]; got != "10000" {
					t.Errorf("wrote %q, want %q", got, "10000")
				}
			} else if len(ft.writes) != 0 {
				t.Errorf("expected no writes, got %v", ft.writes)
			}
		})
	}
}

func TestConfigureUserNamespaces_RHELReadFailure(t *testing.T) {
	ft := newFakeTunables(nil)
	ft.readErr = errors.New("permission denied")

	ConfigureUserNamespaces(ft, "rhel", zerolog.Nop())

	if len(ft.writes) != 0 {
		t.Errorf("expected no writes when read fails, got %v", ft.writes)
	}
}

func TestConfigureUserNamespaces_UnknownDistro(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	ft := newFakeTunables(nil)

	ConfigureUserNamespaces(ft, "arch", log)

	if len(ft.writes) != 0 {
		t.Errorf("expected no writes for unsupported distro, got %v", ft.writes)
	}
	if !strings.Contains(buf.String(), "unsupported distro") {
		t.Errorf("expected unsupported distro advisory, got %q", buf.String())
	}
}

func TestConfigureUserNamespaces_WriteFailureIsAdvisory(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	ft := newFakeTunables(nil)
	ft.writeErr = errors.New("read-only file system")

	// Must not panic or propagate; the step is advisory.
	ConfigureUserNamespaces(ft, "debian", log)

	if !strings.Contains(buf.String(), "could not enable unprivileged user namespaces") {
		t.Errorf("expected write failure advisory, got %q", buf.String())
	}
}
