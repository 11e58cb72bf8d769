//go:build !linux

package system

// EnterGraphicsMode is a no-op outside Linux virtual terminals.
func EnterGraphicsMode(l Logger) (restore func()) {
	logInfof(l, "console mode switching not supported on this platform")
	return func() {}
}
