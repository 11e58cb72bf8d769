// Package app wires the light state, display manager, cursor tracker and
// compositor into one per-frame tick, and runs the optional settings and
// remote API services around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/rook-computer/tahoeglow/internal/cursor"
	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/host"
	"github.com/rook-computer/tahoeglow/internal/render"
	"github.com/rook-computer/tahoeglow/internal/settings"
	"github.com/rook-computer/tahoeglow/internal/state"
	"github.com/rook-computer/tahoeglow/internal/web"
)

// ErrNoSurface is returned by Snapshot when no display could be found.
var ErrNoSurface = errors.New("no overlay surface")

// snapshotLimit bounds how long Snapshot waits for animations to settle.
const snapshotLimit = 5 * time.Second

type App struct {
	Store      *state.Store
	Host       host.Host
	Display    *display.Manager
	Tracker    *cursor.Tracker
	Compositor *render.Compositor

	// Binder loads and saves settings when non-nil. SettingsPath, when
	// set, is watched for external edits.
	Binder       *settings.Binder
	SettingsPath string

	// Web serves the remote settings API when non-nil; Advertise also
	// announces it over mDNS.
	Web       *web.HTTPServer
	Advertise bool

	Logger Logger

	presentErr string
}

func New(store *state.Store, h host.Host, logger Logger) *App {
	if logger == nil {
		logger = NoopLogger{}
	}
	manager := display.NewManager(h, logger)
	compositor := render.NewCompositor()
	compositor.Logger = logger
	compositor.AsyncRebuild = true
	return &App{
		Store:      store,
		Host:       h,
		Display:    manager,
		Tracker:    cursor.NewTracker(h, manager, store),
		Compositor: compositor,
		Logger:     logger,
	}
}

// Tick runs one frame: refresh the display geometry, sample the cursor,
// render, and present. It must be called from a single goroutine.
func (app *App) Tick(now time.Time) {
	app.Display.Poll()
	surface, ok := app.Display.Surface()
	if !ok {
		return
	}
	app.Tracker.Tick()

	img := app.Compositor.Render(app.Store.Snapshot(), surface.Frame().Size(), now)
	err := surface.Present(img)
	// Log transitions only; a failing surface would otherwise log every frame.
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg != app.presentErr {
		if err != nil {
			app.Logger.Errorf("app", "present: %v", err)
		} else {
			app.Logger.Infof("app", "present recovered")
		}
		app.presentErr = msg
	}
}

// Run starts the settings and web services, then drives Tick from the
// host until ctx is done or the host shuts down.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		if err := app.Display.Close(); err != nil {
			app.Logger.Errorf("app", "display close: %v", err)
		}
	}()

	if app.Binder != nil {
		app.Binder.Load()
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Binder.Run(ctx)
		}()
		if app.SettingsPath != "" {
			err := settings.Watch(ctx, app.SettingsPath, settings.DefaultDebounce, app.Logger, func() {
				if err := app.Binder.Reload(); err != nil {
					app.Logger.Errorf("settings", "reload: %v", err)
				}
			})
			if err != nil {
				app.Logger.Errorf("settings", "watch disabled: %v", err)
			}
		}
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			return fmt.Errorf("start web: %w", err)
		}
		defer app.Web.Stop()
		if app.Advertise {
			srv, err := web.Advertise(app.Web.Port(), app.Logger)
			if err != nil {
				app.Logger.Errorf("web", "advertise: %v", err)
			} else {
				defer srv.Shutdown()
			}
		}
	}

	app.Logger.Infof("app", "running")
	return app.Host.Run(ctx, app.Tick)
}

// Snapshot renders frames on a simulated 60 Hz clock until every animation
// has settled, then writes the final frame to w as PNG.
func (app *App) Snapshot(w io.Writer) error {
	app.Compositor.AsyncRebuild = false
	start := time.Now()
	now := start
	for now.Sub(start) < snapshotLimit {
		app.Tick(now)
		if app.Compositor.Settled() {
			break
		}
		now = now.Add(time.Second / 60)
	}
	surface, ok := app.Display.Surface()
	if !ok {
		return ErrNoSurface
	}
	img := app.Compositor.Render(app.Store.Snapshot(), surface.Frame().Size(), now)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
