package hostup

import (
	"fmt"
	"os/exec"
	"strings"
)

// requiredModules are the kernel modules workloads inside managed
// containers depend on. Failing to load any of them is fatal to the
// whole bring-up sequence.
var requiredModules = []string{"configfs"}

// ModuleLoadError reports a kernel module that could not be loaded,
// carrying modprobe's combined output as the diagnostic.
type ModuleLoadError struct {
	Module string
	Output string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("load kernel module %s: %v: %s", e.Module, e.Err, out)
	}
	return fmt.Sprintf("load kernel module %s: %v", e.Module, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// ModuleLoader activates kernel modules via modprobe.
type ModuleLoader struct {
	// runner executes a command and returns its combined output.
	// Replaceable for tests.
	runner func(name string, arg ...string) ([]byte, error)
}

// NewModuleLoader returns a ModuleLoader that shells out to modprobe.
func NewModuleLoader() *ModuleLoader {
	return &ModuleLoader{
		runner: func(name string, arg ...string) ([]byte, error) {
			return exec.Command(name, arg...).CombinedOutput()
		},
	}
}

// Load activates the given kernel modules, returning a *[ModuleLoadError]
// for the first failure. Loading an already-present module is a no-op at
// the modprobe level, so Load is idempotent.
func (l *ModuleLoader) Load(modules ...string) error {
	for _, mod := range modules {
		out, err := l.runner("modprobe", mod)
		if err != nil {
			return &ModuleLoadError{Module: mod, Output: string(out), Err: err}
		}
	}
	return nil
}
