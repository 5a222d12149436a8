package ipcsem

import (
	"hash/crc32"

	"github.com/google/uuid"
)

// NewKey derives an IPC key for a fresh rendezvous semaphore. spec.md §9
// notes that keying on getpid() "is not collision-free under adversarial
// conditions" and explicitly allows a stronger key, such as "a UUID hashed
// to an IPC key", without changing the rendezvous contract (the key is
// still generated once by the creating process and handed to its clone
// child). crc32 keeps the key inside a positive int32, which is what
// semget's key_t argument requires.
func NewKey() int32 {
	id := uuid.New()
	sum := crc32.ChecksumIEEE(id[:])
	return int32(sum & 0x7fffffff)
}
