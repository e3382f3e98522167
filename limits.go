package hostup

import (
	"strconv"

	"github.com/rs/zerolog"
)

// Target values for kernel resource limits. These are fixed constants
// sized for many concurrently running managed containers, not computed
// from live system state.
const (
	inotifyMaxQueuedEvents  = 1048576
	inotifyMaxUserWatches   = 1048576
	inotifyMaxUserInstances = 1048576

	keyringMaxKeys = 20000
	// keyringBytesPerKey sizes maxbytes as a fixed multiple of maxkeys.
	keyringBytesPerKey = 20
)

// RaiseResourceLimits sets the inotify and keyring kernel limits the
// managed containers depend on. Every write is best-effort: failures are
// logged and the remaining tunables are still attempted.
func RaiseResourceLimits(t Tunables, log zerolog.Logger) {
	targets := []struct {
		key   string
		value int
	}{
		{"fs/inotify/max_queued_events", inotifyMaxQueuedEvents},
		{"fs/inotify/max_user_watches", inotifyMaxUserWatches},
		{"fs/inotify/max_user_instances", inotifyMaxUserInstances},
		{"kernel/keys/maxkeys", keyringMaxKeys},
		{"kernel/keys/maxbytes", keyringMaxKeys * keyringBytesPerKey},
	}

	for _, target := range targets {
		if err := t.Write(target.key, strconv.Itoa(target.value)); err != nil {
			log.Warn().Err(err).Str("tunable", target.key).Int("value", target.value).
				Msg("could not raise resource limit")
		}
	}
}
