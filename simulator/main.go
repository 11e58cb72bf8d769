package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rook-computer/tahoeglow/internal/app"
	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/host"
	"github.com/rook-computer/tahoeglow/internal/render"
	"github.com/rook-computer/tahoeglow/internal/state"
	"github.com/rook-computer/tahoeglow/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	scenario := flag.String("scenario", "fhd", "simulated display: "+strings.Join(scenarioNames(), " | "))
	fps := flag.Int("fps", 30, "simulated frame rate")
	hud := flag.Bool("hud", true, "draw the status line into frames")
	flag.Parse()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headless := host.NewHeadless(display.Frame{Width: 1920, Height: 1080})
	headless.FPS = *fps
	store := state.NewStore()
	a := app.New(store, headless, app.NoopLogger{})
	if *hud {
		face, err := render.NewHUD(18)
		if err != nil {
			fmt.Println("hud error:", err)
			os.Exit(1)
		}
		a.Compositor.HUD = face
	}

	control := NewSimControl(headless, store)
	if err := control.ApplyScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	mux := http.NewServeMux()
	web.RegisterAPIV1(mux, web.APIV1Config{Light: store, DevMode: *devMode})
	registerSimEndpoints(mux, control)
	web.RegisterUI(mux, "")
	var handler http.Handler = mux
	if *devMode {
		handler = web.WithDevCORS(mux)
	}
	a.Web = web.NewHTTPServer(*listenAddr, handler)

	fmt.Println("TahoeGlow simulator listening on", *listenAddr)
	fmt.Println("Scenario:", *scenario)
	fmt.Println("API: http://" + trimLeadingColon(*listenAddr) + "/api/v1/")
	fmt.Println("Frame: http://" + trimLeadingColon(*listenAddr) + "/sim/frame.png")

	if err := a.Run(processCtx); err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

func trimLeadingColon(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
