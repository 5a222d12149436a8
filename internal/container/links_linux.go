package container

import "golang.org/x/sys/unix"

// prepareLinks recreates the compatibility and /proc/self/fd symlinks
// ContainerPrivate::PrepareLinks sets up, run from the new root after
// pivotRoot. linkLFS additionally recreates the classic top-level
// /bin,/lib* -> /usr/... symlinks for images that have not done the
// usr-merge themselves.
func prepareLinks(linkLFS bool) {
	_ = unix.Chdir("/")

	if linkLFS {
		_ = unix.Symlink("/usr/bin", "/bin")
		_ = unix.Symlink("/usr/lib", "/lib")
		_ = unix.Symlink("/usr/lib32", "/lib32")
		_ = unix.Symlink("/usr/lib64", "/lib64")
		_ = unix.Symlink("/usr/libx32", "/libx32")
	}

	_ = unix.Symlink("/proc/kcore", "/dev/core")
	_ = unix.Symlink("/proc/self/fd", "/dev/fd")
	_ = unix.Symlink("/proc/self/fd/2", "/dev/stderr")
	_ = unix.Symlink("/proc/self/fd/0", "/dev/stdin")
	_ = unix.Symlink("/proc/self/fd/1", "/dev/stdout")
}
