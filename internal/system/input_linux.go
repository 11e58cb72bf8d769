//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// StartInput watches every evdev device under /dev/input/event* and feeds
// pointer motion and the F4 exit key to h until ctx is done.
//
// It is best-effort: devices that cannot be opened are skipped, and with no
// devices at all it logs and returns.
func StartInput(ctx context.Context, l Logger, h InputHandlers) {
	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		logInfof(l, "no evdev devices found, pointer stays centred")
		return
	}

	var once sync.Once
	exit := func() {
		if h.Exit == nil {
			return
		}
		once.Do(func() {
			logInfof(l, "F4 pressed: exiting")
			h.Exit()
		})
	}

	opened := 0
	for _, path := range paths {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			continue
		}
		opened++
		go readDevice(ctx, os.NewFile(uintptr(fd), path), fd, tvSize, h, exit)
	}
	logInfof(l, "reading input from %d of %d evdev devices", opened, len(paths))
}

func readDevice(ctx context.Context, f *os.File, fd, tvSize int, h InputHandlers, exit func()) {
	defer f.Close()
	buf := make([]byte, 64*(tvSize+8))
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return
		}
		if deviceGone(pollFds[0].Revents) {
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return
		}
		decodeEvents(buf[:n], tvSize, func(ev inputEvent) {
			if h.dispatch(ev) {
				exit()
			}
		})
	}
}

// deviceGone reports a hung-up or invalid descriptor, e.g. an unplugged
// device. Poll returns at once for these, so the reader must stop.
func deviceGone(revents int16) bool {
	return revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0
}
