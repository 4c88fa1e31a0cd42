// Package trust answers whether the device can be trusted to play protected
// content.
package trust

import (
	"github.com/spf13/afero"
)

// Checker reports device compromise. It must be fast and synchronous.
type Checker interface {
	IsDeviceCompromised() bool
}

// Static is a Checker with a fixed answer.
type Static bool

func (s Static) IsDeviceCompromised() bool { return bool(s) }

// DefaultProbePaths are locations of privilege-escalation binaries whose
// presence marks a device as compromised.
var DefaultProbePaths = []string{
	"/system/app/Superuser.apk",
	"/sbin/su",
	"/system/bin/su",
	"/system/xbin/su",
	"/data/local/xbin/su",
	"/data/local/bin/su",
	"/system/sd/xbin/su",
	"/system/bin/failsafe/su",
	"/data/local/su",
	"/su/bin/su",
}

// Probe looks for any of Paths on Fs.
type Probe struct {
	Fs    afero.Fs
	Paths []string
}

// NewProbe probes the OS filesystem for paths (DefaultProbePaths when empty).
func NewProbe(paths []string) *Probe {
	if len(paths) == 0 {
		paths = DefaultProbePaths
	}
	return &Probe{Fs: afero.NewOsFs(), Paths: paths}
}

// IsDeviceCompromised reports whether any probe path exists.
func (p *Probe) IsDeviceCompromised() bool {
	for _, path := range p.Paths {
		if ok, err := afero.Exists(p.Fs, path); err == nil && ok {
			return true
		}
	}
	return false
}

var (
	_ Checker = Static(false)
	_ Checker = (*Probe)(nil)
)
