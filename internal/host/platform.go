// Package host describes the platform a build environment targets.
package host

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Operating system names as reported by the Go toolchain.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)

// Platform identifies an operating system, machine and word size.
type Platform struct {
	// OS is the lower-case operating system name (linux, darwin, windows, ...).
	OS string `json:"os" yaml:"os"`

	// Machine is the uname-style machine name (x86_64, i386, aarch64, ...).
	Machine string `json:"machine" yaml:"machine"`

	// Bits is the native word size: 32 or 64.
	Bits int `json:"bits" yaml:"bits"`

	// SIMD lists the vector extensions the CPU reports. Empty for
	// platforms built by ParsePlatform.
	SIMD []string `json:"simd,omitempty" yaml:"simd,omitempty"`
}

// machineNames maps GOARCH values to uname-style machine names.
var machineNames = map[string]string{
	"amd64":   "x86_64",
	"386":     "i386",
	"arm64":   "aarch64",
	"arm":     "armv7l",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"riscv64": "riscv64",
}

// wordSizes maps GOARCH and machine names to their native word size.
var wordSizes = map[string]int{
	"amd64": 64, "x86_64": 64,
	"arm64": 64, "aarch64": 64,
	"ppc64le": 64, "s390x": 64, "riscv64": 64,
	"386": 32, "i386": 32, "i686": 32,
	"arm": 32, "armv7l": 32,
}

// Detect returns the platform the current process runs on.
func Detect() Platform {
	machine, ok := machineNames[runtime.GOARCH]
	if !ok {
		machine = runtime.GOARCH
	}
	return Platform{
		OS:      runtime.GOOS,
		Machine: machine,
		Bits:    strconv.IntSize,
		SIMD:    detectSIMD(),
	}
}

// ParsePlatform parses "os/machine[/bits]", e.g. "linux/x86_64" or
// "windows/i386/32". Machine may be a GOARCH value. When bits is omitted
// it is derived from the machine name.
func ParsePlatform(s string) (Platform, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return Platform{}, fmt.Errorf("invalid platform %q (want os/machine[/bits])", s)
	}

	p := Platform{OS: strings.ToLower(parts[0]), Machine: parts[1]}
	if m, ok := machineNames[p.Machine]; ok {
		p.Machine = m
	}

	if len(parts) == 3 {
		bits, err := strconv.Atoi(strings.TrimSuffix(parts[2], "bit"))
		if err != nil || (bits != 32 && bits != 64) {
			return Platform{}, fmt.Errorf("invalid word size %q in platform %q", parts[2], s)
		}
		p.Bits = bits
		return p, nil
	}

	bits, ok := wordSizes[p.Machine]
	if !ok {
		return Platform{}, fmt.Errorf("cannot infer word size for machine %q; use os/machine/bits", p.Machine)
	}
	p.Bits = bits
	return p, nil
}

// IsWindows reports whether the platform belongs to the Windows family.
func (p Platform) IsWindows() bool {
	return p.OS == Windows
}

// String formats the platform as "os/machine/bits".
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s/%d", p.OS, p.Machine, p.Bits)
}
