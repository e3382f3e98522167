package hostup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeTunables is an in-memory [Tunables] recording every write in order.
type fakeTunables struct {
	values   map[string]string
	writes   map[string]string
	order    []string
	readErr  error
	writeErr error
}

func newFakeTunables(values map[string]string) *fakeTunables {
	if values == nil {
		values = make(map[string]string)
	}
	return &fakeTunables{
		values: values,
		writes: make(map[string]string),
	}
}

func (f *fakeTunables) Read(key string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", os.ErrNotExist
	}
	return v, nil
}

func (f *fakeTunables) Write(key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.values[key] = value
	f.writes[key] = value
	f.order = append(f.order, key)
	return nil
}

func TestProcSysTunables_ReadWrite(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "fs", "inotify"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "fs", "inotify", "max_user_watches"), []byte("8192\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tun := ProcSysTunables{Root: root}

	got, err := tun.Read("fs/inotify/max_user_watches")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "8192" {
		t.Errorf("Read() = %q, want %q (trailing newline trimmed)", got, "8192")
	}

	if err := tun.Write("fs/inotify/max_user_watches", "1048576"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err = tun.Read("fs/inotify/max_user_watches")
	if err != nil {
		t.Fatalf("Read() after Write() error = %v", err)
	}
	if got != "1048576" {
		t.Errorf("Read() after Write() = %q, want %q", got, "1048576")
	}
}

func TestProcSysTunables_ReadMissing(t *testing.T) {
	tun := ProcSysTunables{Root: t.TempDir()}
	_, err := tun.Read("kernel/does_not_exist")
	if err == nil {
		t.Fatal("expected error for missing tunable")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
