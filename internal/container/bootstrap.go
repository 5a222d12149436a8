package container

import (
	"encoding/json"
	"io"

	"github.com/linglong/ll-box/internal/config"
	"github.com/pkg/errors"
)

// entryBootstrap is everything the entry stage needs that it cannot
// observe on its own after re-exec: the runtime configuration (the
// re-exec'd process starts with a blank slate, not a copy of the parent's
// memory the way a raw clone(2) child would), the invocation option, the
// rendezvous semaphore key, and whether the cgroup namespace was
// requested. It travels to the entry stage as JSON over an inherited
// pipe (fd 3), the idiomatic Go substitute for the struct-pointer arg a
// real clone(2) child would simply read out of shared memory.
type entryBootstrap struct {
	Runtime        config.Runtime
	Opt            Option
	SemKey         int32
	UseNewCgroupNS bool
	HostUID        int
	HostGID        int
}

// payloadBootstrap is the equivalent handoff from the entry stage to the
// payload stage.
type payloadBootstrap struct {
	Runtime  config.Runtime
	Opt      Option
	SemKey   int32
	ClonePID bool
	HostUID  int
	HostGID  int
}

func encodeTo(w io.Writer, v interface{}) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return errors.Wrap(err, "encoding bootstrap data")
	}
	return nil
}

func decodeFrom(r io.Reader, v interface{}) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "decoding bootstrap data")
	}
	return nil
}
