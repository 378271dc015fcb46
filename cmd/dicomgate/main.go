package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrsinham/dicomgate/internal/config"
	"github.com/mrsinham/dicomgate/internal/observability"
	"github.com/mrsinham/dicomgate/internal/server"
	"github.com/mrsinham/dicomgate/internal/store"
)

const serviceName = "dicomgate"

// version is set at build time via -ldflags
var version = "dev"

func main() {
	configFile := flag.String("config", "", "Load configuration from YAML file")
	listenAddr := flag.String("listen", "", "HTTP listen address (overrides config)")
	uploadDir := flag.String("upload-dir", "", "Upload directory (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", serviceName, version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *uploadDir != "" {
		cfg.Storage.UploadDir = *uploadDir
	}

	logger := observability.NewLogger(serviceName, version, os.Stdout)
	observability.SetLevel(cfg.Logging.Level)

	st, err := store.Open(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal(err, "failed to open upload store")
	}

	srv := server.New(st, observability.NewMetrics(), logger, server.Options{
		Service:        serviceName,
		Version:        version,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		PreviewMaxDim:  cfg.Preview.MaxDimension,
		WindowCenter:   cfg.Preview.WindowCenter,
		WindowWidth:    cfg.Preview.WindowWidth,
	})

	mux := http.NewServeMux()
	srv.RegisterHTTP(mux)

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.ServerStarted(cfg.Server.ListenAddr, cfg.Storage.UploadDir)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "shutdown did not complete cleanly")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "server stopped")
		}
	}
}
