// Package reexec gives internal/platform.Clone somewhere to land: each
// clone child re-executes the ll-box-init binary with a stage name as its
// first argument, and reexec.Init dispatches to the registered function
// for that stage instead of running normal program logic. This is the
// same "self re-exec as a subcommand" idiom runc and Docker use for every
// namespace entry point, grounded in the teacher's own /proc/self/exe
// re-invocation (internal/pkg/util/paths and the plugin examples'
// "/proc/self/exe config ..." calls).
package reexec

import (
	"os"
)

var stages = map[string]func(){}

// Register associates a stage name with the function that should run when
// ll-box-init is re-executed with that name as argv[1]. Call this from an
// init() in the package that owns the stage (internal/container's entry
// and payload stages).
func Register(stage string, fn func()) {
	stages[stage] = fn
}

// Init checks whether the current process was invoked as a registered
// reexec stage (argv[1] matches a Register call) and, if so, runs it and
// returns true. The caller's main() should call this first and exit
// immediately if it returns true; the stage function itself decides its
// own exit code via os.Exit.
func Init() bool {
	if len(os.Args) < 2 {
		return false
	}
	fn, ok := stages[os.Args[1]]
	if !ok {
		return false
	}
	fn()
	return true
}
