// Package cgroupv2 configures the cgroup v2 tree for a container's init
// process, per spec.md §4.6. Cgroup v1 is explicitly a Non-goal.
package cgroupv2

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/linglong/ll-box/internal/sylog"
	"github.com/opencontainers/runc/libcontainer/cgroups"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	units "github.com/docker/go-units"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// subGroup is the fixed subgroup name every container is placed under,
// matching the original implementation's "ll-box" directory.
const subGroup = "ll-box"

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// CPUWeight converts the OCI cpu.shares range [2, 262144] into the cgroup
// v2 cpu.weight range [1, 10000], clamping out-of-range input into
// [1, 10000] after the formula, per spec.md §4.6 / Testable Property 5.
func CPUWeight(shares uint64) uint64 {
	w := 1 + ((int64(shares)-2)*9999)/262142
	if w < 1 {
		return 1
	}
	if w > 10000 {
		return 10000
	}
	return uint64(w)
}

// clampSwapMax implements the Open Question resolution of spec.md §9/§4.6:
// memory.swap.max = swap - limit, clamped at 0 when swap < limit, with a
// warning surfaced rather than writing a negative value.
func clampSwapMax(swap, limit int64) int64 {
	v := swap - limit
	if v < 0 {
		sylog.Warningf("cgroup memory.swap.max would be negative (swap=%s, limit=%s); clamping to 0",
			units.BytesSize(float64(swap)), units.BytesSize(float64(limit)))
		return 0
	}
	return v
}

// Configure creates the cgroup v2 tree, mounts cgroup2 onto cgroupsPath,
// creates the "ll-box" subgroup, writes the resource limits res describes,
// and places initPID into it. An empty cgroupsPath is a no-op, matching
// spec.md's Testable Property "if memory.limit == 0, no memory.* file is
// written" sibling rule for an absent cgroups path.
func Configure(cgroupsPath string, res *specs.LinuxResources, initPID int) error {
	if cgroupsPath == "" {
		sylog.Warningf("skip cgroup configuration: empty cgroupsPath")
		return nil
	}

	if err := mkdirAll(cgroupsPath); err != nil {
		return errors.Wrapf(err, "creating cgroup root %q", cgroupsPath)
	}

	if err := unix.Mount("cgroup2", cgroupsPath, "cgroup2", 0, ""); err != nil {
		return errors.Wrapf(err, "mounting cgroup2 at %q", cgroupsPath)
	}

	group := filepath.Join(cgroupsPath, subGroup)
	if err := mkdirAll(group); err != nil {
		return errors.Wrapf(err, "creating subgroup %q", group)
	}

	if res != nil && res.Memory != nil && res.Memory.Limit != nil && *res.Memory.Limit > 0 {
		limit := *res.Memory.Limit
		var swap, reservation int64
		if res.Memory.Swap != nil {
			swap = *res.Memory.Swap
		}
		if res.Memory.Reservation != nil {
			reservation = *res.Memory.Reservation
		}

		if err := writeAll(group, map[string]string{
			"memory.max":      strconv.FormatInt(limit, 10),
			"memory.swap.max": strconv.FormatInt(clampSwapMax(swap, limit), 10),
			"memory.low":      strconv.FormatInt(reservation, 10),
		}); err != nil {
			return err
		}
	}

	var period uint64
	var quota uint64
	var shares uint64
	if res != nil && res.CPU != nil {
		if res.CPU.Period != nil {
			period = *res.CPU.Period
		}
		if res.CPU.Quota != nil {
			quota = uint64(*res.CPU.Quota)
		}
		if res.CPU.Shares != nil {
			shares = *res.CPU.Shares
		}
	}

	if err := writeAll(group, map[string]string{
		"cpu.max":    strconv.FormatUint(quota, 10) + " " + strconv.FormatUint(period, 10),
		"cpu.weight": strconv.FormatUint(CPUWeight(shares), 10),
	}); err != nil {
		return err
	}

	if err := writeAll(group, map[string]string{
		"cgroup.procs": strconv.Itoa(initPID),
	}); err != nil {
		return err
	}

	sylog.Debugf("moved pid %d into cgroup %q", initPID, group)
	return nil
}

func writeAll(dir string, files map[string]string) error {
	for name, value := range files {
		sylog.Debugf("cgroup write %s/%s = %s", dir, name, value)
		if err := cgroups.WriteFile(dir, name, value); err != nil {
			return errors.Wrapf(err, "writing %s/%s", dir, name)
		}
	}
	return nil
}
