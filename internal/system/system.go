// Package system wraps the Linux console and input devices the framebuffer
// host runs on.
package system

// Logger is the subset of the application logger this package writes to.
type Logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

func logInfof(l Logger, format string, args ...interface{}) {
	if l != nil {
		l.Infof("system", format, args...)
	}
}

func logErrorf(l Logger, format string, args ...interface{}) {
	if l != nil {
		l.Errorf("system", format, args...)
	}
}
