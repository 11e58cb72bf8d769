package system

import (
	"context"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestDeviceGone(t *testing.T) {
	tests := []struct {
		name    string
		revents int16
		want    bool
	}{
		{name: "readable", revents: unix.POLLIN, want: false},
		{name: "timeout", revents: 0, want: false},
		{name: "hang up", revents: unix.POLLHUP, want: true},
		{name: "error", revents: unix.POLLERR, want: true},
		{name: "invalid", revents: unix.POLLNVAL, want: true},
		{name: "data then hang up", revents: unix.POLLIN | unix.POLLHUP, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deviceGone(tt.revents); got != tt.want {
				t.Fatalf("deviceGone(%#x) = %v, want %v", tt.revents, got, tt.want)
			}
		})
	}
}

func TestReadDeviceStopsOnHangUp(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	// No writer left: poll reports POLLHUP on every call from now on.
	w.Close()

	done := make(chan struct{})
	go func() {
		readDevice(context.Background(), r, int(r.Fd()), 16, InputHandlers{}, func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reader kept polling a hung-up device")
	}
}
