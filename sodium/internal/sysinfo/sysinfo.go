// Package sysinfo identifies the host platform for library metadata.
package sysinfo

import (
	"errors"
	"runtime"
)

var ErrUnsupportedPlatform = errors.New("sysinfo: unsupported platform")

// OS is an operating system family.
type OS int

const (
	Unknown OS = iota
	Windows
	Linux
	Mac
)

func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case Mac:
		return "mac"
	default:
		return "unknown"
	}
}

// CPUArch is a processor architecture.
type CPUArch int

const (
	UnknownArch CPUArch = iota
	X32
	X64
	ARM64
)

func (a CPUArch) String() string {
	switch a {
	case X32:
		return "x32"
	case X64:
		return "x64"
	case ARM64:
		return "arm64"
	default:
		return "unknown"
	}
}

// DetectOS returns the OS the binary was built for.
func DetectOS() OS {
	os, _ := Parse(runtime.GOOS, runtime.GOARCH)
	return os
}

// DetectCPUArch returns the architecture the binary was built for.
func DetectCPUArch() CPUArch {
	_, arch := Parse(runtime.GOOS, runtime.GOARCH)
	return arch
}

// Parse maps GOOS/GOARCH values to an OS and CPUArch.
func Parse(goos, goarch string) (OS, CPUArch) {
	var os OS
	switch goos {
	case "linux", "android":
		os = Linux
	case "darwin", "ios":
		os = Mac
	case "windows":
		os = Windows
	}

	var arch CPUArch
	switch goarch {
	case "386":
		arch = X32
	case "amd64":
		arch = X64
	case "arm64":
		arch = ARM64
	}
	return os, arch
}

// LibraryName returns the file name libsodium is installed under on os.
func LibraryName(os OS) (string, error) {
	switch os {
	case Linux:
		return "libsodium.so", nil
	case Mac:
		return "libsodium.dylib", nil
	case Windows:
		return "libsodium.dll", nil
	default:
		return "", ErrUnsupportedPlatform
	}
}
