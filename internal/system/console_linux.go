//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

var vtPaths = []string{"/dev/tty", "/dev/tty0"}

// EnterGraphicsMode switches the active virtual terminal to graphics mode
// and hides its text cursor so the console does not draw over the
// framebuffer glow. The returned function restores text mode; it is safe to
// call when entering failed.
func EnterGraphicsMode(l Logger) (restore func()) {
	if err := setConsoleMode(kdGraphics); err != nil {
		logErrorf(l, "KD_GRAPHICS failed: %v", err)
	} else {
		logInfof(l, "KD_GRAPHICS set")
	}
	if err := writeVT("\x1b[?25l"); err != nil {
		logErrorf(l, "hide cursor failed: %v", err)
	}
	return func() {
		if err := setConsoleMode(kdText); err != nil {
			logErrorf(l, "KD_TEXT failed: %v", err)
		} else {
			logInfof(l, "KD_TEXT set")
		}
		if err := writeVT("\x1b[?25h"); err != nil {
			logErrorf(l, "show cursor failed: %v", err)
		}
	}
}

func setConsoleMode(mode int) error {
	var lastErr error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range vtPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT: %w", lastErr)
}
