package sodium

import (
	"errors"
	"runtime"

	"github.com/TheusHen/sodium/sodium/internal/native"
	"github.com/TheusHen/sodium/sodium/internal/sysinfo"
)

var ErrInitFailed = errors.New("sodium: failed to initialize")

// Status is the result code of sodium_init.
type Status int

const (
	StatusFailed             Status = -1
	StatusOK                 Status = 0
	StatusAlreadyInitialized Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyInitialized:
		return "already initialized"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Init initializes the library. It is safe to call more than once and from
// multiple goroutines.
func Init() (Status, error) {
	st := Status(native.Init())
	if st == StatusFailed {
		return st, ErrInitFailed
	}
	return st, nil
}

// MustInit is like Init but panics on failure.
func MustInit() {
	if _, err := Init(); err != nil {
		panic(err)
	}
}

// Backend names the implementation doing the cryptography.
func Backend() string { return native.Name() }

// LibVersion describes the linked backend and the platform it runs on.
type LibVersion struct {
	Version string
	Arch    string
	OS      string
	Tags    map[string]string
}

// Version reports the backend version and platform.
func Version() LibVersion {
	os := sysinfo.DetectOS()
	tags := map[string]string{
		"backend": native.Name(),
		"go":      runtime.Version(),
	}
	if lib, err := sysinfo.LibraryName(os); err == nil {
		tags["library"] = lib
	}
	return LibVersion{
		Version: native.Version(),
		Arch:    sysinfo.DetectCPUArch().String(),
		OS:      os.String(),
		Tags:    tags,
	}
}
