package hostup

import (
	"strconv"

	"github.com/rs/zerolog"
)

const (
	usernsCloneKey       = "kernel/unprivileged_userns_clone"
	maxUserNamespacesKey = "user/max_user_namespaces"

	// userNamespacesFloor is the minimum max_user_namespaces value needed
	// to host many concurrently running managed containers.
	userNamespacesFloor = 10000
)

// ConfigureUserNamespaces enables or raises unprivileged user namespace
// limits for the given distribution. It never fails: every problem is
// logged as an advisory and the bring-up sequence proceeds.
func ConfigureUserNamespaces(t Tunables, distro string, log zerolog.Logger) {
	switch FamilyOf(distro) {
	case FamilyDebian:
		if err := t.Write(usernsCloneKey, "1"); err != nil {
			log.Warn().Err(err).Str("tunable", usernsCloneKey).
				Msg("could not enable unprivileged user namespaces")
			return
		}
		log.Info().Str("tunable", usernsCloneKey).Msg("unprivileged user namespaces enabled")

	case FamilyRHEL:
		raw, err := t.Read(maxUserNamespacesKey)
		if err != nil {
			log.Warn().Err(err).Str("tunable", maxUserNamespacesKey).
				Msg("could not read user namespace limit")
			return
		}
		cur, err := strconv.Atoi(raw)
		if err != nil {
			// Non-numeric value: leave the kernel's setting alone.
			log.Warn().Str("tunable", maxUserNamespacesKey).Str("value", raw).
				Msg("user namespace limit is not numeric, leaving unchanged")
			return
		}
		if cur >= userNamespacesFloor {
			return
		}
		if err := t.Write(maxUserNamespacesKey, strconv.Itoa(userNamespacesFloor)); err != nil {
			log.Warn().Err(err).Str("tunable", maxUserNamespacesKey).
				Msg("could not raise user namespace limit")
			return
		}
		log.Info().Int("from", cur).Int("to", userNamespacesFloor).
			Msg("user namespace limit raised")

	default:
		log.Warn().Str("distro", distro).
			Msg("unsupported distro, skipping user namespace configuration")
	}
}
