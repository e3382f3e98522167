// Package hostup prepares a Linux host for the boxvisor container runtime
// and brings up its sidecar daemons.
//
// A bring-up run is a single sequential pipeline: stop any daemon instances
// left over from a previous run, configure the kernel facilities the managed
// containers depend on (kernel modules, user namespace limits, kernel config
// visibility, inotify and keyring limits), then start the manager and
// filesystem daemons in order, confirming each one reached readiness before
// proceeding.
//
// # Failure policy
//
// Only three conditions abort a run: missing root privilege, a required
// kernel module failing to load, and a daemon not reaching its readiness
// marker within the retry budget. Everything else — unknown distributions,
// a missing kernel config with no /boot fallback, individual sysctl write
// failures — is advisory: logged, then skipped.
//
// # Readiness
//
// Each daemon writes its output to a fixed log file. A daemon is considered
// ready when a daemon-specific literal marker appears in that file; the
// [Supervisor] polls for it with a bounded number of attempts and a fixed
// delay. On exhaustion the full log content is surfaced as the diagnostic
// and the sequence aborts.
//
// # Quick start
//
//	o := hostup.New(hostup.DefaultConfig(), logger)
//	if err := o.Up(hostup.ModeNormal); err != nil {
//	    log.Fatal().Err(err).Msg("bring-up failed")
//	}
//
// The whole sequence is idempotent: every invocation begins by stopping
// running daemons and every setup step either converges or skips, so
// re-running after a fatal cause has been addressed is the expected
// recovery path.
package hostup
