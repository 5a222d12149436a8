package container

import (
	"github.com/linglong/ll-box/internal/config"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// cloneFlags computes the namespace clone flags for the first (entry)
// clone, matching Container::Start's switch over r.linux.namespaces:
// a requested user namespace kind adds no flag (CLONE_NEWUSER is added
// only when rootless; the commented-out use_delay_new_user_ns path in the
// original is simply not reproduced, see DESIGN.md), and a requested
// cgroup namespace is recorded for later application via unshare rather
// than folded into this clone's flags.
func cloneFlags(namespaces []config.NamespaceKind, rootless bool) (flags uintptr, useNewCgroupNS bool, err error) {
	flags = unix.CLONE_NEWNS

	for _, ns := range namespaces {
		switch ns {
		case config.NamespaceIPC:
			flags |= unix.CLONE_NEWIPC
		case config.NamespaceUTS:
			flags |= unix.CLONE_NEWUTS
		case config.NamespaceMount:
			// already set unconditionally above
		case config.NamespacePID:
			flags |= unix.CLONE_NEWPID
		case config.NamespaceNet:
			flags |= unix.CLONE_NEWNET
		case config.NamespaceUser:
			// no flag here; the rootless switch below adds CLONE_NEWUSER
		case config.NamespaceCgroup:
			useNewCgroupNS = true
		default:
			return 0, false, errors.Errorf("unknown namespace kind %q", ns)
		}
	}

	if rootless {
		flags |= unix.CLONE_NEWUSER
	}

	return flags, useNewCgroupNS, nil
}
