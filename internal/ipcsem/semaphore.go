// Package ipcsem implements the two-process rendezvous semaphore spec.md
// §4.2 describes: a SysV counting semaphore reached through golang.org/x/
// sys/unix's Semget plus raw semop/semctl syscalls (the unix package does
// not wrap those two beyond Semget, so this package talks to the kernel
// ABI directly, the same way the teacher's lowest-level primitives reach
// past the standard library when it has no wrapper).
package ipcsem

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Linux ipc command numbers from <linux/sem.h>; stable across
// architectures. x/sys/unix exposes Semget but not semop/semctl, so these
// are reproduced here rather than left undefined.
const (
	ipcCreat  = 0o1000
	semSETVAL = 16
)

// sembuf mirrors struct sembuf from <sys/sem.h>; its layout, not its Go
// type identity, is what the SYS_SEMOP syscall cares about.
type sembuf struct {
	SemNum uint16
	SemOp  int16
	SemFlg int16
}

// Semaphore is a single-member SysV counting semaphore identified by an
// IPC key. The same key must be known to both rendezvous parties: the
// creating process generates it once (see internal/ipcsem/key.go) and
// passes it to its clone child in the JSON bootstrap data.
type Semaphore struct {
	id int
}

// New creates (or attaches to, if it already exists with matching
// permissions) the semaphore set identified by key, with one member.
func New(key int32) (*Semaphore, error) {
	id, err := unix.Semget(int(key), 1, ipcCreat|0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "semget(key=%d)", key)
	}
	return &Semaphore{id: id}, nil
}

// Init sets the semaphore's value to 0. It is idempotent within the
// engine's lifetime: calling it again after Post/Wait activity simply
// resets the counter, matching the "init is idempotent" contract of
// spec.md §4.2.
func (s *Semaphore) Init() error {
	_, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(s.id), 0, semSETVAL, 0, 0, 0)
	if errno != 0 {
		return errors.Wrap(errno, "semctl(SETVAL, 0)")
	}
	return nil
}

// Post increments the semaphore (the "V" operation).
func (s *Semaphore) Post() error {
	return s.semop(1)
}

// Wait decrements the semaphore, blocking while it is 0 (the "P"
// operation).
func (s *Semaphore) Wait() error {
	return s.semop(-1)
}

func (s *Semaphore) semop(delta int16) error {
	ops := [1]sembuf{{SemNum: 0, SemOp: delta, SemFlg: 0}}
	_, _, errno := unix.Syscall(unix.SYS_SEMOP, uintptr(s.id), uintptr(unsafe.Pointer(&ops[0])), 1)
	if errno != 0 {
		return errors.Wrapf(errno, "semop(delta=%d)", delta)
	}
	return nil
}
