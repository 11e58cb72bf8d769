//go:build !linux

package system

import "context"

// StartInput has no evdev to read outside Linux.
func StartInput(ctx context.Context, l Logger, h InputHandlers) {
	logInfof(l, "evdev input not supported on this platform")
}
