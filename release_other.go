//go:build !linux

package hostup

// KernelRelease returns the running kernel release string.
// On non-Linux platforms it always fails.
func KernelRelease() (string, error) {
	return "", ErrUnsupportedPlatform
}
