package platform

import (
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// Exec resolves argv[0] through PATH and replaces the current process
// image, exactly like the C execvpe the teacher reaches for (spec.md
// §4.1). It does not return on success; on failure it returns the
// resolution or execve errno, wrapped.
func Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return errors.New("exec: empty argv")
	}

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return errors.Wrapf(err, "resolving %q in PATH", argv[0])
	}

	if err := syscall.Exec(bin, argv, env); err != nil {
		return errors.Wrapf(err, "execve %q", bin)
	}
	// unreachable on success
	return nil
}
