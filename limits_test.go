package hostup

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRaiseResourceLimits(t *testing.T) {
	ft := newFakeTunables(nil)

	RaiseResourceLimits(ft, zerolog.Nop())

	want := map[string]string{
		"fs/inotify/max_queued_events":  "1048576",
		"fs/inotify/max_user_watches":   "1048576",
		"fs/inotify/max_user_instances": "1048576",
		"kernel/keys/maxkeys":           "20000",
		"kernel/keys/maxbytes":          "400000",
	}

	if len(ft.writes) != len(want) {
		t.Fatalf("wrote %d tunables, want %d: %v", len(ft.writes), len(want), ft.writes)
	}
	for key, value := range want {
		if got := ft.writes[key]; got != value {
			t.Errorf("wrote %q to %s, want %q", got, key, value)
		}
	}
}

func TestRaiseResourceLimits_FailuresIgnored(t *testing.T) {
	var buf bytes.Buffer
	ft := newFakeTunables(nil)
	ft.writeErr = errors.New("read-only file system")

	// All five writes fail; none may abort the step.
	RaiseResourceLimits(ft, zerolog.New(&buf))

	if got := strings.Count(buf.String(), "could not raise resource limit"); got != 5 {
		t.Errorf("got %d failure advisories, want 5", got)
	}
}
