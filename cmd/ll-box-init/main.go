// Command ll-box-init is the single binary that both launches a container
// and, re-executed with a stage name as argv[1], becomes that container's
// entry or payload process (spec.md §4.8, §AMBIENT §12). Reading and
// validating the on-disk bundle format is out of scope (spec.md §1): the
// launch path here only decodes the already-built runtime configuration
// JSON this process is handed on stdin.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/container"
	"github.com/linglong/ll-box/internal/reexec"
	"github.com/linglong/ll-box/internal/sylog"
)

func init() {
	// Namespace-entry syscalls (unshare, setns, chroot) are per-thread;
	// the goroutine driving them must never hop OS threads mid-sequence.
	runtime.LockOSThread()
}

func main() {
	if reexec.Init() {
		return
	}

	rootless := flag.Bool("rootless", false, "run without requiring additional privileges")
	linkLFS := flag.Bool("link-lfs", false, "recreate /bin, /lib* compatibility symlinks")
	flag.Parse()

	var rt config.Runtime
	if err := json.NewDecoder(os.Stdin).Decode(&rt); err != nil {
		sylog.Fatalf("decoding runtime configuration: %s", err)
	}

	engine, err := container.NewEngine(rt)
	if err != nil {
		sylog.Fatalf("%s", err)
	}

	opt := container.Option{Rootless: *rootless, LinkLFS: *linkLFS}
	if err := engine.Start(opt); err != nil {
		sylog.Fatalf("%s", err)
	}
}
