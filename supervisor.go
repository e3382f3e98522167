package hostup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ProcessControl abstracts the ambient OS process table so the supervisor
// state machine can be tested deterministically.
type ProcessControl interface {
	// FindByName returns the pids of running processes matching an
	// executable name. No matches is not an error.
	FindByName(name string) ([]int, error)
	// Terminate asks a process to shut down. It does not wait for exit.
	Terminate(pid int) error
	// Spawn launches a detached background process with output redirected
	// to logPath and returns its pid.
	Spawn(path string, args []string, logPath string) (int, error)
}

// RetrySpec bounds a readiness poll: up to Attempts checks separated by
// Delay. It is the only timeout mechanism in the bring-up sequence.
type RetrySpec struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry gives each daemon roughly ten seconds to become ready.
var DefaultRetry = RetrySpec{Attempts: 10, Delay: time.Second}

// DaemonSpec describes one supervised sidecar daemon.
type DaemonSpec struct {
	// Name is the executable name, also used for process-table lookups.
	Name string
	// Path is the absolute path of the executable to launch.
	Path string
	// Args are always passed; TestingArgs are appended in [ModeTesting].
	Args        []string
	TestingArgs []string
	// LogPath receives the daemon's redirected output.
	LogPath string
	// ReadyMarker is the literal substring whose appearance in the log
	// proves the daemon finished initializing.
	ReadyMarker string
}

// DaemonState is a daemon's position in the supervision state machine.
type DaemonState int

const (
	// StateNotRunning is the initial state before any start attempt.
	StateNotRunning DaemonState = iota
	// StateStarting means the launch was issued but not yet confirmed.
	StateStarting
	// StatePollingReadiness means the log is being scanned for the marker.
	StatePollingReadiness
	// StateReady means the readiness marker was observed.
	StateReady
	// StateFailed means launch failed or the retry budget was exhausted.
	StateFailed
)

func (s DaemonState) String() string {
	switch s {
	case StateNotRunning:
		return "not-running"
	case StateStarting:
		return "starting"
	case StatePollingReadiness:
		return "polling-readiness"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("DaemonState(%d)", int(s))
	}
}

// ReadinessError reports a daemon that never produced its readiness marker
// within the retry budget. Log carries the full log file content as the
// diagnostic.
type ReadinessError struct {
	Daemon   string
	Attempts int
	LogPath  string
	Log      string
}

func (e *ReadinessError) Error() string {
	return fmt.Sprintf("daemon %s not ready after %d attempts (log: %s)",
		e.Daemon, e.Attempts, e.LogPath)
}

// Supervisor drives the per-daemon state machine: stop leftover instances,
// start daemons in order, and poll each one's log for its readiness marker.
type Supervisor struct {
	procs   ProcessControl
	retry   RetrySpec
	log     zerolog.Logger
	daemons []DaemonSpec
	states  map[string]DaemonState
}

// NewSupervisor builds a supervisor over the given daemons. Start order is
// the daemon order given here.
func NewSupervisor(procs ProcessControl, retry RetrySpec, log zerolog.Logger, daemons ...DaemonSpec) *Supervisor {
	states := make(map[string]DaemonState, len(daemons))
	for _, d := range daemons {
		states[d.Name] = StateNotRunning
	}
	return &Supervisor{
		procs:   procs,
		retry:   retry,
		log:     log,
		daemons: daemons,
		states:  states,
	}
}

// State returns the current state of the named daemon.
func (s *Supervisor) State(name string) DaemonState {
	return s.states[name]
}

// StopAll sends a termination signal to every running instance of each
// supervised daemon. Absence of matching processes is normal; lookup and
// signal failures are logged and otherwise ignored.
func (s *Supervisor) StopAll() {
	for _, d := range s.daemons {
		pids, err := s.procs.FindByName(d.Name)
		if err != nil {
			s.log.Debug().Err(err).Str("daemon", d.Name).Msg("process lookup failed")
			continue
		}
		for _, pid := range pids {
			if err := s.procs.Terminate(pid); err != nil {
				s.log.Debug().Err(err).Str("daemon", d.Name).Int("pid", pid).
					Msg("terminate failed")
				continue
			}
			s.log.Info().Str("daemon", d.Name).Int("pid", pid).Msg("daemon stopped")
		}
		s.states[d.Name] = StateNotRunning
	}
}

// StartAll starts the supervised daemons in order, waiting for each one's
// readiness marker before starting the next. The first failure aborts the
// sequence: later daemons are never started.
func (s *Supervisor) StartAll(mode Mode) error {
	for _, d := range s.daemons {
		if err := s.start(d, mode); err != nil {
			return err
		}
	}
	return nil
}

func (s *Supervisor) start(d DaemonSpec, mode Mode) error {
	args := d.Args
	if mode == ModeTesting && len(d.TestingArgs) > 0 {
		args = append(append([]string{}, d.Args...), d.TestingArgs...)
	}

	s.states[d.Name] = StateStarting
	s.log.Info().Str("daemon", d.Name).Strs("args", args).Msg("starting daemon")

	pid, err := s.procs.Spawn(d.Path, args, d.LogPath)
	if err != nil {
		s.states[d.Name] = StateFailed
		return fmt.Errorf("start daemon %s: %w", d.Name, err)
	}

	s.states[d.Name] = StatePollingReadiness
	if err := s.awaitReady(d); err != nil {
		s.states[d.Name] = StateFailed
		return err
	}

	s.states[d.Name] = StateReady
	s.log.Info().Str("daemon", d.Name).Int("pid", pid).Msg("daemon ready")
	return nil
}

// awaitReady polls the daemon's log for its readiness marker, stopping at
// the first match. Exhausting the retry budget returns a *[ReadinessError]
// carrying the full log content, which is also dumped to the logger so the
// operator sees the daemon's own diagnostics.
func (s *Supervisor) awaitReady(d DaemonSpec) error {
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		if logContains(d.LogPath, d.ReadyMarker) {
			return nil
		}
		if attempt < s.retry.Attempts {
			time.Sleep(s.retry.Delay)
		}
	}

	content, err := os.ReadFile(d.LogPath)
	if err != nil {
		content = []byte(fmt.Sprintf("(could not read %s: %v)", d.LogPath, err))
	}
	s.log.Error().Str("daemon", d.Name).Int("attempts", s.retry.Attempts).
		Msg("daemon never became ready; full log follows\n" + string(content))

	return &ReadinessError{
		Daemon:   d.Name,
		Attempts: s.retry.Attempts,
		LogPath:  d.LogPath,
		Log:      string(content),
	}
}

// logContains reports whether the log file currently contains the marker.
// The scan is an advisory content check, not a structural parse; a missing
// or unreadable file simply means "not ready yet".
func logContains(path, marker string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), marker)
}
