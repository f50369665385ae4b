package env

import (
	"path/filepath"
	"strings"
)

// candidates returns the file names tried for name: the name itself and,
// on Windows platforms, name.exe.
func (e *Environment) candidates(name string) []string {
	if e.Platform.IsWindows() && !strings.EqualFold(filepath.Ext(name), ".exe") {
		return []string{name, name + ".exe"}
	}
	return []string{name}
}

// absolute resolves p against the working directory. It returns p
// unchanged if that fails.
func absolute(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// WhereIs searches ExecPath for an executable called name. It returns the
// absolute path of the first match ("" if none) and every path it tried.
// Names containing a path separator are checked as given. Relative
// ExecPath entries are resolved against the working directory.
func (e *Environment) WhereIs(name string) (string, []string) {
	var tried []string

	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		for _, cand := range e.candidates(absolute(name)) {
			tried = append(tried, cand)
			if IsExecutable(cand) {
				return cand, tried
			}
		}
		return "", tried
	}

	for _, dir := range e.ExecPath {
		if dir == "" {
			continue
		}
		for _, cand := range e.candidates(name) {
			p := filepath.Join(absolute(dir), cand)
			tried = append(tried, p)
			if IsExecutable(p) {
				return p, tried
			}
		}
	}
	return "", tried
}

// Detect returns the path of the first of names found on ExecPath.
func (e *Environment) Detect(names ...string) (string, bool) {
	for _, name := range names {
		if p, _ := e.WhereIs(name); p != "" {
			return p, true
		}
	}
	return "", false
}
