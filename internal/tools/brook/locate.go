package brook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/whiskeyjimb/sitetools/internal/env"
)

// Suffixes are the file name variants tried for a command, in order.
var Suffixes = []string{"", ".exe"}

// Strategy resolves a file name to an executable path. It returns "" when
// nothing matched, along with every path it checked.
type Strategy struct {
	Name    string
	Resolve func(file string) (string, []string)
}

// InstallRoot looks for the file directly inside root. A relative root is
// resolved against the working directory, so matches are absolute.
func InstallRoot(root string) Strategy {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return Strategy{
		Name: "install-root",
		Resolve: func(file string) (string, []string) {
			p := filepath.Join(root, file)
			if env.IsExecutable(p) {
				return p, []string{p}
			}
			return "", []string{p}
		},
	}
}

// SearchPath looks for the file on the environment's search path.
func SearchPath(e *env.Environment) Strategy {
	return Strategy{
		Name:    "search-path",
		Resolve: e.WhereIs,
	}
}

// NotFoundError reports a command that no strategy could resolve.
type NotFoundError struct {
	Command string
	Tried   []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Brook+ compiler '%s' not found. Tried: %s", e.Command, strings.Join(e.Tried, ", "))
}

// Locate tries each suffix with every strategy in turn and returns the
// first executable found. The error is a *NotFoundError listing all
// attempted paths.
func Locate(command string, suffixes []string, strategies ...Strategy) (string, error) {
	var tried []string
	for _, suffix := range suffixes {
		for _, s := range strategies {
			p, attempts := s.Resolve(command + suffix)
			if p != "" {
				return p, nil
			}
			tried = append(tried, attempts...)
		}
	}
	return "", &NotFoundError{Command: command, Tried: tried}
}

// LocateCommand finds command under root, falling back to e's search path.
func LocateCommand(e *env.Environment, command, root string) (string, error) {
	return Locate(command, Suffixes, InstallRoot(root), SearchPath(e))
}
