// Package idmap writes uid/gid maps and setgroups=deny to /proc/<pid>/…
// for a target process, per spec.md §4.5.
package idmap

import (
	"fmt"
	"os"

	"github.com/linglong/ll-box/internal/config"
	"github.com/pkg/errors"
)

// procPath formats the /proc/<pid> prefix; pid <= 0 means "self".
func procPath(pid int) string {
	if pid <= 0 {
		return "/proc/self"
	}
	return fmt.Sprintf("/proc/%d", pid)
}

// FormatMapLines renders one "containerID hostID size" line per entry, as
// written to uid_map/gid_map. Exported for unit testing without touching
// /proc.
func FormatMapLines(maps []config.IDMap) string {
	var out string
	for _, m := range maps {
		out += fmt.Sprintf("%d %d %d\n", m.ContainerID, m.HostID, m.Size)
	}
	return out
}

// Write installs uid/gid mappings for pid (or the calling process, if
// pid <= 0). The order is significant and matches the kernel's own
// requirement for an unprivileged writer: setgroups=deny must be written
// before gid_map, and both before the mapped process proceeds past its
// semaphore wait.
func Write(pid int, uidMaps, gidMaps []config.IDMap) error {
	base := procPath(pid)

	if err := writeFile(base+"/uid_map", FormatMapLines(uidMaps)); err != nil {
		return errors.Wrap(err, "writing uid_map")
	}

	if err := writeFile(base+"/setgroups", "deny"); err != nil {
		return errors.Wrap(err, "writing setgroups")
	}

	if err := writeFile(base+"/gid_map", FormatMapLines(gidMaps)); err != nil {
		return errors.Wrap(err, "writing gid_map")
	}

	return nil
}

// writeFile opens, writes, and closes in one call so the kernel validates
// and flushes the write immediately, matching spec.md §4.5's "files are
// closed after each write to flush kernel validation".
func writeFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "open %q", path)
	}
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return errors.Wrapf(werr, "write %q", path)
	}
	return cerr
}
