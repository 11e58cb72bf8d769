//go:build !linux

package host

import "errors"

func openFramebuffer(opts Options) (Host, error) {
	return nil, errors.New("framebuffer host is only available on Linux")
}
