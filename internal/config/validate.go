package config

import "fmt"

// ConfigError enumerates every invariant violation found by Validate, so a
// caller can surface all of them at once instead of fixing one field per
// round-trip. This is a configuration failure (spec.md §7): it is returned
// before any process is cloned and never causes a panic or process exit.
type ConfigError struct {
	Violations []string
}

func (e *ConfigError) Error() string {
	if len(e.Violations) == 1 {
		return "invalid runtime configuration: " + e.Violations[0]
	}
	msg := fmt.Sprintf("invalid runtime configuration (%d violations):", len(e.Violations))
	for _, v := range e.Violations {
		msg += "\n  - " + v
	}
	return msg
}

// Validate checks the statically-checkable invariants of spec.md §3:
// exactly one of native/overlayfs, a non-empty staging root, namespace
// kinds drawn from the known set, and a non-empty payload command. It does
// not touch the filesystem or the kernel.
func (r *Runtime) Validate() error {
	var violations []string

	if r.Root.Path == "" {
		violations = append(violations, "root.path must not be empty")
	}

	hasNative := r.Annotations.Native != nil
	hasOverlay := r.Annotations.Overlayfs != nil
	switch {
	case hasNative && hasOverlay:
		violations = append(violations, "annotations: exactly one of native or overlayfs must be set, both were given")
	case !hasNative && !hasOverlay:
		violations = append(violations, "annotations: exactly one of native or overlayfs must be set, neither was given")
	}

	if hasOverlay {
		ov := r.Annotations.Overlayfs
		if ov.LowerParent == "" {
			violations = append(violations, "annotations.overlayfs.lower_parent must not be empty")
		}
		if ov.Upper == "" {
			violations = append(violations, "annotations.overlayfs.upper must not be empty")
		}
		if ov.WorkDir == "" {
			violations = append(violations, "annotations.overlayfs.workdir must not be empty")
		}
	}

	if r.Annotations.ContainerRootPath == "" {
		violations = append(violations, "annotations.container_root_path must not be empty")
	}

	for _, n := range r.Linux.Namespaces {
		if !knownNamespaces[n] {
			violations = append(violations, fmt.Sprintf("linux.namespaces: unknown namespace kind %q", n))
		}
	}

	if len(r.Process.Args) == 0 {
		violations = append(violations, "process.args must not be empty")
	}

	if len(violations) == 0 {
		return nil
	}
	return &ConfigError{Violations: violations}
}
