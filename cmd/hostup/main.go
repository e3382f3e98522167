package main

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/boxvisor/hostup"
	"github.com/leodido/structcli"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
)

// Build metadata injected via ldflags.
// When built without ldflags (e.g., plain `go build`), these remain
// at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	root := upCmd()
	root.AddCommand(downCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "hostup").Logger()
}

// UpOptions defines flags for the root (bring-up) command.
type UpOptions struct {
	Mode   modeFlag `flag:"mode" flagshort:"m" flagdescr:"Daemon launch mode (normal, testing)" flagcustom:"true"`
	Config string   `flag:"config" flagshort:"c" flagdescr:"Path to the hostup config file"`
}

func (o *UpOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *UpOptions) DefineMode(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*modeFlag)
	*fieldPtr = modeFlag(hostup.ModeNormal)
	return fieldPtr, descr
}

func (o *UpOptions) DecodeMode(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	var m modeFlag
	if err := m.Set(s); err != nil {
		return nil, err
	}
	return m, nil
}

func upCmd() *cobra.Command {
	opts := &UpOptions{}

	cmd := &cobra.Command{
		Use:   "hostup [testing-on]",
		Short: "Prepare the host and bring up the boxvisor sidecar daemons",
		Long: `hostup prepares a Linux host for the boxvisor container runtime and
starts its sidecar daemons in order.

It loads required kernel modules, enables unprivileged user namespaces,
makes the kernel build config visible to the daemons, raises inotify and
keyring limits, then starts boxvisor-mgr and boxvisor-fs, confirming each
reached readiness. Must run as root. The sequence is idempotent and safe
to re-run.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			mode := hostup.Mode(opts.Mode)
			if len(args) == 1 {
				positional, err := hostup.ParseMode(args[0])
				if err != nil {
					return err
				}
				if c.Flags().Changed("mode") && positional != mode {
					return fmt.Errorf("positional %q conflicts with --mode %s", args[0], mode)
				}
				mode = positional
			}

			o, err := newOrchestrator(opts.Config)
			if err != nil {
				return err
			}
			return o.Up(mode)
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// DownOptions defines flags for the down subcommand.
type DownOptions struct {
	Config string `flag:"config" flagshort:"c" flagdescr:"Path to the hostup config file"`
}

func (o *DownOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func downCmd() *cobra.Command {
	opts := &DownOptions{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop the boxvisor sidecar daemons",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			o, err := newOrchestrator(opts.Config)
			if err != nil {
				return err
			}
			return o.Down()
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show kernel and tool version",
		RunE: func(c *cobra.Command, args []string) error {
			if version != "" {
				fmt.Printf("hostup %s", version)
				if commit != "" {
					fmt.Printf(" (%s)", commit)
				}
				if date != "" {
					fmt.Printf(" built %s", date)
				}
				fmt.Println()
			} else {
				fmt.Println("hostup (dev)")
			}

			release, err := hostup.KernelRelease()
			if err != nil {
				return err
			}
			fmt.Printf("Kernel: %s\n", release)
			return nil
		},
	}
}

func newOrchestrator(configPath string) (*hostup.Orchestrator, error) {
	if configPath == "" {
		configPath = hostup.DefaultConfigPath
	}
	cfg, err := hostup.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return hostup.New(cfg, initLogger())
}

// modeFlag parses the daemon launch mode through enumflag so the flag
// accepts the same tokens as the positional form, case-insensitively.
type modeFlag hostup.Mode

var modeIdentifiers = map[hostup.Mode][]string{
	hostup.ModeNormal:  {"normal"},
	hostup.ModeTesting: {"testing", "testing-on"},
}

func (m *modeFlag) String() string {
	return hostup.Mode(*m).String()
}

func (m *modeFlag) Set(input string) error {
	var mode hostup.Mode
	enumValue := enumflag.New(&mode, "hostup.Mode", modeIdentifiers, enumflag.EnumCaseInsensitive)
	if err := enumValue.Set(input); err != nil {
		return fmt.Errorf("unknown mode: %q (available: normal, testing)", input)
	}

	*m = modeFlag(mode)
	return nil
}

func (m *modeFlag) Type() string {
	return "mode"
}
