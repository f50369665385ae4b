//go:build !unix

package env

import (
	"os"
	"runtime"
)

// IsExecutable reports whether path is a regular file that looks
// executable. Windows has no execute bit, so any regular file qualifies.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
