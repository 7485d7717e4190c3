package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/starmap/internal/app"
	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/render"
	"github.com/rook-computer/starmap/internal/state"
	"github.com/rook-computer/starmap/internal/web"
)

const (
	envStdioLog = "STARMAP_STDIO_LOG"
	envLogLevel = "STARMAP_LOG_LEVEL"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "mirror any CORS origin; also configurable via "+web.EnvDevMode)
	catalogPath := flag.String("catalog", defaults.CatalogPath, "star catalog YAML replacing the embedded one; also configurable via "+web.EnvCatalog)
	strategyName := flag.String("strategy", defaults.Strategy.String(), "default constellation strategy: synthetic | catalog; also configurable via "+web.EnvStrategy)
	stdioLog := flag.String("stdio-log", os.Getenv(envStdioLog), "redirect stdout+stderr (including panics) to this file; also configurable via "+envStdioLog)
	logLevel := flag.String("log-level", os.Getenv(envLogLevel), "debug | info | warn | error; also configurable via "+envLogLevel)
	flag.Parse()

	strategy, ok := constellation.ParseStrategy(*strategyName)
	if !ok {
		fmt.Printf("unknown strategy %q\n", *strategyName)
		os.Exit(2)
	}
	level, err := app.ParseLevel(*logLevel)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Best-effort: keep panics from goroutines in the log file too.
	if *stdioLog != "" {
		if err := redirectStdIO(*stdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}
	logger := app.NewSlogLogger(os.Stderr, level)

	cat := catalog.Default()
	if *catalogPath != "" {
		cat, err = catalog.LoadFile(*catalogPath)
		if err != nil {
			logger.Errorf("main", "catalog: %v", err)
			os.Exit(2)
		}
		logger.Infof("main", "loaded %d catalog entries from %s", cat.Len(), *catalogPath)
	}

	cfg := defaults
	cfg.ListenAddr = *listenAddr
	cfg.DevMode = *devMode
	cfg.Strategy = strategy
	cfg.CatalogPath = *catalogPath

	store := state.NewStore()
	server := web.NewHTTPServer(cfg)
	server.Logger = logger
	server.Handler = web.NewDefaultMux(cfg, web.APIV1Config{
		Deps: web.APIV1Deps{
			Renderer: render.NewCatalogRenderer(cat),
			Stats:    store,
			Logger:   logger,
			Strategy: cfg.Strategy,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(store, server)
	a.Logger = logger
	if err := a.Start(ctx); err != nil {
		logger.Errorf("main", "%v", err)
		os.Exit(1)
	}
}
