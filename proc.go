//go:build linux

package hostup

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// commLen is the kernel's truncation length for /proc/<pid>/comm.
const commLen = 15

// OSProcessControl is the real [ProcessControl] backed by the process
// table. The zero value uses /proc; ProcRoot is overridable for tests.
type OSProcessControl struct {
	ProcRoot string
}

func (p *OSProcessControl) procRoot() string {
	if p.ProcRoot != "" {
		return p.ProcRoot
	}
	return "/proc"
}

// FindByName returns the pids of all running processes whose command name
// matches name. Absence of matches is normal and yields an empty slice.
func (p *OSProcessControl) FindByName(name string) ([]int, error) {
	entries, err := os.ReadDir(p.procRoot())
	if err != nil {
		return nil, err
	}

	want := name
	if len(want) > commLen {
		want = want[:commLen]
	}

	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(p.procRoot(), e.Name(), "comm"))
		if err != nil {
			// Process exited between the listing and the read.
			continue
		}
		if strings.TrimSpace(string(comm)) == want && pid != os.Getpid() {
			pids = append(pids, pid)
		}
	}

	return pids, nil
}

// Terminate sends SIGTERM to the process. It does not wait for exit.
func (p *OSProcessControl) Terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

// Spawn launches path as a detached background process with stdout and
// stderr redirected to logPath, returning the child's pid. The log file is
// truncated so a previous run's readiness marker can never satisfy a new
// run's poll.
func (p *OSProcessControl) Spawn(path string, args []string, logPath string) (int, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cmd := exec.Command(path, args...)
	cmd.Stdout = f
	cmd.Stderr = f
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	// Reap the child if it exits while we are still around.
	go cmd.Wait()
	return pid, nil
}
