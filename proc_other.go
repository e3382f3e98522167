//go:build !linux

package hostup

// OSProcessControl is the real [ProcessControl] backed by the process
// table. On non-Linux platforms every operation fails.
type OSProcessControl struct {
	ProcRoot string
}

func (p *OSProcessControl) FindByName(_ string) ([]int, error) {
	return nil, ErrUnsupportedPlatform
}

func (p *OSProcessControl) Terminate(_ int) error {
	return ErrUnsupportedPlatform
}

func (p *OSProcessControl) Spawn(_ string, _ []string, _ string) (int, error) {
	return 0, ErrUnsupportedPlatform
}
