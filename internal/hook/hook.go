// Package hook runs the prestart hook list of spec.md §4.7 (the only
// hook list config.Hooks carries): a fork/exec/wait per hook, with the hook's own exit
// status ignored beyond logging it.
package hook

import (
	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/platform"
	"github.com/linglong/ll-box/internal/sylog"
)

// Run executes each hook in order, waiting for one to finish before
// starting the next. A hook that fails to start is reported; a hook that
// starts but exits non-zero is only logged, matching the teacher's
// HookExec, which does not propagate the child's exit status.
func Run(hooks []config.Hook) error {
	for _, h := range hooks {
		argv := append([]string{h.Path}, h.Args...)
		ws, err := platform.ForkExecWait(h.Path, argv, h.Env)
		if err != nil {
			return err
		}
		if !ws.Exited() || ws.ExitStatus() != 0 {
			sylog.Warningf("hook %q exited abnormally: %s", h.Path, ws.String())
		} else {
			sylog.Debugf("hook %q completed", h.Path)
		}
	}
	return nil
}
