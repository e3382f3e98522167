package hostup

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// ErrNotRoot is returned when bring-up is attempted without an effective
// root identity. No work is performed in that case.
var ErrNotRoot = errors.New("hostup must run as root")

// ErrUnsupportedPlatform is returned by host-facing operations on
// platforms other than Linux.
var ErrUnsupportedPlatform = errors.New("hostup requires Linux")

// Orchestrator sequences the whole bring-up: stop leftover daemons,
// configure the host's kernel facilities, then start the daemons in order
// with readiness confirmation. All host touch points are injected so the
// sequence can be exercised without a real kernel.
type Orchestrator struct {
	cfg      Config
	log      zerolog.Logger
	tunables Tunables
	procs    ProcessControl
	modules  *ModuleLoader
	locator  *KernelConfigLocator
	sup      *Supervisor

	euid          func() int
	release       func() (string, error)
	osReleasePath string
}

// New builds an orchestrator bound to the real host.
func New(cfg Config, log zerolog.Logger) (*Orchestrator, error) {
	retry, err := cfg.RetrySpec()
	if err != nil {
		return nil, err
	}
	procs := &OSProcessControl{}
	return &Orchestrator{
		cfg:           cfg,
		log:           log,
		tunables:      ProcSysTunables{},
		procs:         procs,
		modules:       NewModuleLoader(),
		locator:       NewKernelConfigLocator(log),
		sup:           NewSupervisor(procs, retry, log, cfg.Daemons()...),
		euid:          os.Geteuid,
		release:       KernelRelease,
		osReleasePath: osReleasePath,
	}, nil
}

// Up runs the full setup-then-supervise sequence. It is fail-fast for the
// fatal conditions (privilege, kernel module, daemon readiness) and
// advisory for everything else, and it is safe to re-run: every invocation
// begins by stopping running daemon instances.
func (o *Orchestrator) Up(mode Mode) error {
	if o.euid() != 0 {
		return ErrNotRoot
	}

	o.sup.StopAll()

	distro := identifyDistroFrom(o.osReleasePath)
	o.log.Info().Str("distro", distro).Str("mode", mode.String()).Msg("bring-up starting")

	if err := o.modules.Load(requiredModules...); err != nil {
		return err
	}

	ConfigureUserNamespaces(o.tunables, distro, o.log)

	if release, err := o.release(); err != nil {
		o.log.Warn().Err(err).Msg("could not determine kernel release, skipping kernel config placement")
	} else {
		o.locator.Ensure(distro, release)
	}

	RaiseResourceLimits(o.tunables, o.log)

	if err := os.MkdirAll(o.cfg.StateDir, 0700); err != nil {
		return fmt.Errorf("create state dir %s: %w", o.cfg.StateDir, err)
	}

	if err := o.sup.StartAll(mode); err != nil {
		return err
	}

	o.log.Info().Msg("bring-up complete")
	return nil
}

// Down stops all supervised daemons without running any setup. Stopping
// daemons that were not running is not an error.
func (o *Orchestrator) Down() error {
	if o.euid() != 0 {
		return ErrNotRoot
	}
	o.sup.StopAll()
	return nil
}
