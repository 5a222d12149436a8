package container

// Option carries the per-invocation switches spec.md §3's Lifecycle
// paragraph names alongside the static Runtime configuration: whether the
// container runs rootless (everything gated on an unprivileged user
// namespace) and whether the classic /usr-merge compatibility symlinks
// are created.
type Option struct {
	Rootless bool
	LinkLFS  bool
}
