package hostup

import (
	"os"
	"path/filepath"
	"strings"
)

// Tunables exposes read/write access to kernel tunables by their
// slash-separated key under /proc/sys (e.g. "fs/inotify/max_user_watches").
// It exists so host-mutating steps can be exercised against a fake instead
// of a real kernel.
type Tunables interface {
	Read(key string) (string, error)
	Write(key, value string) error
}

// ProcSysTunables is the real [Tunables] backed by the procfs sysctl tree.
// The zero value uses /proc/sys; Root is overridable for tests.
type ProcSysTunables struct {
	Root string
}

func (p ProcSysTunables) path(key string) string {
	root := p.Root
	if root == "" {
		root = "/proc/sys"
	}
	return filepath.Join(root, filepath.FromSlash(key))
}

// Read returns the tunable's current value with surrounding whitespace
// trimmed.
func (p ProcSysTunables) Read(key string) (string, error) {
	data, err := os.ReadFile(p.path(key))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Write sets the tunable's value.
func (p ProcSysTunables) Write(key, value string) error {
	return os.WriteFile(p.path(key), []byte(value), 0644)
}
