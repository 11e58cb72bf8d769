//go:build headless

package host

import "errors"

func openWindow(opts Options) (Host, error) {
	return nil, errors.New("window host not available in headless builds")
}
