package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/plc-visualizer/strintern/internal/api"
	"github.com/plc-visualizer/strintern/internal/config"
	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/logging"
	"github.com/plc-visualizer/strintern/internal/preload"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to strintern.yaml (default: next to the executable)")
	flag.Parse()

	if *configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(exePath), "strintern.yaml")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Advanced.LogLevel, cfg.Advanced.LogFormat)
	if err != nil {
		fmt.Printf("Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	log := logging.Component(logger, "internd")

	if err := run(cfg, *configPath, logger); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.AppConfig, configPath string, logger *logrus.Logger) error {
	log := logging.Component(logger, "internd")

	opts, err := cfg.RegistryOptions()
	if err != nil {
		return err
	}
	if err := intern.Configure(append(opts, intern.WithLogger(logger))...); err != nil {
		return err
	}
	guard := intern.Retain()
	defer guard.Release()

	if cfg.Registry.PreloadFile != "" {
		res, err := preload.LoadFile(intern.Default(), cfg.Registry.PreloadFile)
		if err != nil {
			return fmt.Errorf("preload %s: %w", cfg.Registry.PreloadFile, err)
		}
		log.WithFields(logrus.Fields{
			"file":       cfg.Registry.PreloadFile,
			"interned":   res.Interned,
			"present":    res.AlreadyPresent,
			"collisions": len(res.Collisions),
		}).Info("preload applied")
		for _, c := range res.Collisions {
			log.WithFields(logrus.Fields{
				"id":        c.ID.String(),
				"text":      c.Text,
				"canonical": c.Canonical,
			}).Warn("preload symbol collides")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		intern.NewCollector(cfg.Advanced.MetricsNamespace, intern.Default),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api.ShowErrorDetails = logger.IsLevelEnabled(logrus.DebugLevel)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	api.SetupMiddleware(e, api.MiddlewareOptions{
		RequestLogging: cfg.Advanced.EnableRequestLogging,
		EnableCORS:     cfg.Server.EnableCORS,
		AllowOrigins:   cfg.Server.AllowOrigins,
		BodyLimit:      cfg.Server.BodyLimit,
		Timeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
	})

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Source:     intern.Default,
		Logger:     logger,
		FeedBuffer: cfg.Registry.FeedBuffer,
		Version:    Version,
	}), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cfg, configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", s.Addr).Info("listening")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		// Shutdown does not track hijacked websocket connections
		intern.Default().Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func printBanner(cfg *config.AppConfig, configPath string) {
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           strintern Registry Server                       ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Hasher:     %-45s║\n", intern.Default().HasherName())
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Entries:   %-46d║\n", intern.Default().Len())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}
