//go:build unix

package keyboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// DefaultBackend is the backend used when none is chosen.
const DefaultBackend = BackendPoll

// pollTimeout is how long one poll waits before the context is checked
// again, in milliseconds.
const pollTimeout = 100

func readPoll(ctx context.Context, fd int) (byte, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}} //nolint:gosec // File descriptors fit in int32.
	buf := make([]byte, 1)

	for {
		err := ctx.Err()
		if err != nil {
			return 0, err
		}

		n, err := unix.Poll(fds, pollTimeout)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return 0, fmt.Errorf("poll: %w", err)
		}

		if n == 0 {
			continue
		}

		rn, err := unix.Read(fd, buf)
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		}

		if err != nil {
			return 0, fmt.Errorf("read key: %w", err)
		}

		if rn == 0 {
			return 0, io.EOF
		}

		return buf[0], nil
	}
}
