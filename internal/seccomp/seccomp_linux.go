// Package seccomp installs a seccomp-bpf filter from a declarative
// *specs.LinuxSeccomp profile, per spec.md §4.8: seccomp is loaded in the
// payload phase, after prestart hooks run and only when the container is
// privileged enough to need confinement (see payloadRun in
// internal/container).
package seccomp

import (
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	lseccomp "github.com/seccomp/libseccomp-golang"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

var archMap = map[specs.Arch]lseccomp.ScmpArch{
	"":                    lseccomp.ArchNative,
	specs.ArchX86:         lseccomp.ArchX86,
	specs.ArchX86_64:      lseccomp.ArchAMD64,
	specs.ArchX32:         lseccomp.ArchX32,
	specs.ArchARM:         lseccomp.ArchARM,
	specs.ArchAARCH64:     lseccomp.ArchARM64,
	specs.ArchPPC64:       lseccomp.ArchPPC64,
	specs.ArchPPC64LE:     lseccomp.ArchPPC64LE,
	specs.ArchS390:        lseccomp.ArchS390,
	specs.ArchS390X:       lseccomp.ArchS390X,
}

var actionMap = map[specs.LinuxSeccompAction]lseccomp.ScmpAction{
	specs.ActKill:  lseccomp.ActKillThread,
	specs.ActTrap:  lseccomp.ActTrap,
	specs.ActErrno: lseccomp.ActErrno,
	specs.ActTrace: lseccomp.ActTrace,
	specs.ActAllow: lseccomp.ActAllow,
}

var compareOpMap = map[specs.LinuxSeccompOperator]lseccomp.ScmpCompareOp{
	specs.OpNotEqual:     lseccomp.CompareNotEqual,
	specs.OpLessThan:     lseccomp.CompareLess,
	specs.OpLessEqual:    lseccomp.CompareLessOrEqual,
	specs.OpEqualTo:      lseccomp.CompareEqual,
	specs.OpGreaterEqual: lseccomp.CompareGreaterEqual,
	specs.OpGreaterThan:  lseccomp.CompareGreater,
	specs.OpMaskedEqual:  lseccomp.CompareMaskedEqual,
}

func hasConditionSupport() bool {
	major, minor, micro := lseccomp.GetLibraryVersion()
	return (major > 2) || (major == 2 && minor > 2) || (major == 2 && minor == 2 && micro >= 1)
}

// Load installs profile as the calling thread's seccomp filter. It must run
// after PR_SET_NO_NEW_PRIVS has already been decided by the caller; noNewPrivs
// only controls whether this filter itself sets that bit.
func Load(profile *specs.LinuxSeccomp, noNewPrivs bool) error {
	if profile == nil {
		return errors.New("seccomp: nil profile")
	}
	if len(profile.DefaultAction) == 0 {
		return errors.New("seccomp: defaultAction is required")
	}

	if _, _, errno := unix.Syscall6(unix.SYS_PRCTL, unix.PR_GET_SECCOMP, 0, 0, 0, 0, 0); errno == unix.EINVAL {
		return errors.New("seccomp: not supported by kernel")
	}

	supportCondition := hasConditionSupport()
	if !supportCondition {
		sylog.Warningf("seccomp rule conditions unsupported with libseccomp < 2.2.1")
	}

	defaultAction, ok := actionMap[profile.DefaultAction]
	if !ok {
		return errors.Errorf("seccomp: invalid default action %q", profile.DefaultAction)
	}
	if defaultAction == lseccomp.ActErrno {
		defaultAction = defaultAction.SetReturnCode(int16(unix.EPERM))
	}

	nativeArch, err := lseccomp.GetNativeArch()
	if err != nil {
		return errors.Wrap(err, "seccomp: native arch")
	}

	archs := []lseccomp.ScmpArch{nativeArch}
	for _, a := range profile.Architectures {
		scmpArch, ok := archMap[a]
		if !ok {
			return errors.Errorf("seccomp: invalid architecture %q", a)
		}
		if scmpArch != nativeArch {
			archs = append(archs, scmpArch)
		}
	}

	var merged *lseccomp.ScmpFilter
	for _, arch := range archs {
		filter, err := lseccomp.NewFilter(defaultAction)
		if err != nil {
			return errors.Wrap(err, "seccomp: new filter")
		}
		if err := filter.SetNoNewPrivsBit(noNewPrivs); err != nil {
			return errors.Wrap(err, "seccomp: set no-new-privs")
		}
		if arch != nativeArch {
			if err := filter.AddArch(arch); err != nil {
				return errors.Wrap(err, "seccomp: add arch")
			}
			if err := filter.RemoveArch(nativeArch); err != nil {
				return errors.Wrap(err, "seccomp: remove native arch")
			}
		}

		if err := addRules(filter, profile.Syscalls, arch, supportCondition); err != nil {
			return err
		}

		if merged == nil {
			merged = filter
		} else if err := merged.Merge(filter); err != nil {
			return errors.Wrapf(err, "seccomp: merge filter for %v", arch)
		}
	}

	if merged == nil {
		return errors.New("seccomp: filter not built")
	}
	if err := merged.Load(); err != nil {
		return errors.Wrap(err, "seccomp: load filter")
	}

	sylog.Debugf("seccomp filter loaded: %d rules, default action %s", len(profile.Syscalls), profile.DefaultAction)
	return nil
}

func addRules(filter *lseccomp.ScmpFilter, rules []specs.LinuxSyscall, arch lseccomp.ScmpArch, supportCondition bool) error {
	for _, rule := range rules {
		if len(rule.Names) == 0 {
			return errors.New("seccomp: rule with no syscall names")
		}

		action, ok := actionMap[rule.Action]
		if !ok {
			return errors.Errorf("seccomp: invalid rule action %q", rule.Action)
		}
		if action == lseccomp.ActErrno {
			action = action.SetReturnCode(int16(unix.EPERM))
		}

		for _, name := range rule.Names {
			nr, err := lseccomp.GetSyscallFromNameByArch(name, arch)
			if err != nil {
				continue
			}

			if len(rule.Args) == 0 || !supportCondition {
				if err := filter.AddRule(nr, action); err != nil {
					return errors.Wrapf(err, "seccomp: add rule for %s", name)
				}
				continue
			}

			conds, err := conditions(rule.Args)
			if err != nil {
				return err
			}
			if err := filter.AddRuleConditional(nr, action, conds); err != nil {
				return errors.Wrapf(err, "seccomp: add conditional rule for %s", name)
			}
		}
	}
	return nil
}

func conditions(args []specs.LinuxSeccompArg) ([]lseccomp.ScmpCondition, error) {
	const maxIndex uint = 6
	out := make([]lseccomp.ScmpCondition, 0, len(args))
	for _, a := range args {
		if a.Index >= maxIndex {
			return nil, errors.Errorf("seccomp: arg index %d out of range", a.Index)
		}
		op, ok := compareOpMap[a.Op]
		if !ok {
			return nil, errors.Errorf("seccomp: invalid operator %q", a.Op)
		}
		cond, err := lseccomp.MakeCondition(a.Index, op, a.Value, a.ValueTwo)
		if err != nil {
			return nil, errors.Wrap(err, "seccomp: make condition")
		}
		out = append(out, cond)
	}
	return out, nil
}
