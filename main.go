package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/tahoeglow/internal/app"
	"github.com/rook-computer/tahoeglow/internal/host"
	"github.com/rook-computer/tahoeglow/internal/render"
	"github.com/rook-computer/tahoeglow/internal/settings"
	"github.com/rook-computer/tahoeglow/internal/state"
	"github.com/rook-computer/tahoeglow/internal/system"
	"github.com/rook-computer/tahoeglow/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tahoeglow:", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	debug := flag.Bool("debug", false, "enable debug logging to ./tahoeglow-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via TAHOEGLOW_STDIO_LOG")
	hostKind := flag.String("host", host.KindWindow, "display host: window, framebuffer or headless")
	monitor := flag.String("monitor", "", "window host: monitor name to cover (default primary)")
	fbDevice := flag.String("fb", "/dev/fb0", "framebuffer host: device path")
	size := flag.String("size", "1920x1080", "headless host: display size WxH")
	fps := flag.Int("fps", render.DefaultFPS, "frame rate")
	settingsPath := flag.String("settings", "", "settings file (default $TAHOEGLOW_SETTINGS or the user config dir)")
	noSettings := flag.Bool("no-settings", false, "do not load or save settings")
	listen := flag.String("listen", "", "serve the remote settings API on this address; also configurable via TAHOEGLOW_LISTEN")
	advertise := flag.Bool("advertise", false, "announce the remote settings API over mDNS")
	hud := flag.Bool("hud", false, "draw a status line on the overlay")
	snapshot := flag.String("snapshot", "", "render one settled frame to this PNG file and exit")
	flag.Parse()

	// Best-effort: keep panics diagnosable when the console is in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("TAHOEGLOW_STDIO_LOG")
	}
	if logPath != "" {
		if err := system.RedirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./tahoeglow-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	headlessSize, err := parseSize(*size)
	if err != nil {
		return err
	}
	kind := *hostKind
	if *snapshot != "" {
		kind = host.KindHeadless
	}
	h, err := host.Open(kind, host.Options{
		Monitor: *monitor,
		Device:  *fbDevice,
		Size:    headlessSize,
		FPS:     *fps,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("open %s host: %w", kind, err)
	}
	defer h.Close()

	store := state.NewStore()
	a := app.New(store, h, logger)
	if *hud {
		face, err := render.NewHUD(18)
		if err != nil {
			return err
		}
		a.Compositor.HUD = face
	}

	if !*noSettings {
		path := *settingsPath
		if path == "" {
			if path, err = settings.DefaultPath(); err != nil {
				return err
			}
		}
		fileStore, err := settings.OpenFileStore(path)
		if err != nil {
			return err
		}
		a.Binder = settings.NewBinder(fileStore, store, logger)
		a.SettingsPath = path
		logger.Infof("main", "settings at %s", path)
	}

	if *snapshot != "" {
		if a.Binder != nil {
			a.Binder.Load()
		}
		return writeSnapshot(a, *snapshot)
	}

	cfg, err := web.DefaultServerConfigFromEnv(*listen)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if cfg.ListenAddr != "" {
		srv := web.NewHTTPServer(cfg.ListenAddr, web.NewHandler(web.APIV1Config{
			Light:   store,
			Logger:  logger,
			DevMode: cfg.DevMode,
		}))
		srv.Logger = logger
		a.Web = srv
		a.Advertise = *advertise
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

func writeSnapshot(a *app.App, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Snapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseSize(s string) (image.Point, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	return image.Pt(w, h), nil
}
