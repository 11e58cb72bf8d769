package render

import (
	"context"
	"time"
)

// DefaultFPS is the frame rate for hosts without a display clock of their own.
const DefaultFPS = 60

// RunLoop calls frame at the given rate until the context is done. A
// heartbeat with the achieved rate is logged every heartbeat interval.
func RunLoop(ctx context.Context, fps int, logger interface {
	Infof(string, string, ...interface{})
}, frame func(now time.Time)) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	const heartbeat = 10 * time.Second
	lastLog := time.Now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			frame(now)
			frames++
			if logger != nil && now.Sub(lastLog) >= heartbeat {
				logger.Infof("render", "heartbeat frames=%d rate=%.1f/s", frames, float64(frames)/now.Sub(lastLog).Seconds())
				lastLog = now
				frames = 0
			}
		}
	}
}
