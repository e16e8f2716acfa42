package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/xtding233/fishing-backend/internal/api"
	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/journal"
	"github.com/xtding233/fishing-backend/internal/rpc"
	"github.com/xtding233/fishing-backend/internal/session"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	grpcAddr := flag.String("grpc-addr", ":9090", "gRPC listen address (empty = disabled)")
	catalogDir := flag.String("catalog", "catalog", "Catalog directory (default.yaml + zones/)")
	journalPath := flag.String("journal", "data/catches.csv", "Catch log CSV (empty = disabled)")
	starter := flag.String("starter-bait", "worm=20", "Bait granted to new players, e.g. worm=20,cricket=5")
	reload := flag.Duration("reload", 2*time.Second, "Catalog poll interval (0 = no hot reload)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	starterBait, err := parseStarterBait(*starter)
	if err != nil {
		slog.Error("invalid -starter-bait", "error", err)
		os.Exit(2)
	}

	if err := run(*addr, *grpcAddr, *catalogDir, *journalPath, starterBait, *reload, logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(addr, grpcAddr, catalogDir, journalPath string, starterBait map[string]int, reload time.Duration, logger *slog.Logger) error {
	loader := catalog.NewLoader(catalogDir)
	cat, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for id := range starterBait {
		if _, err := cat.Bait(id); err != nil {
			return fmt.Errorf("starter bait: %w", err)
		}
	}
	logger.Info("catalog loaded", "dir", catalogDir, "version", cat.Version, "zones", cat.Zones())

	history, err := journal.ReadFile(journalPath)
	if err != nil {
		return err
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	mgr := session.NewManager(session.ManagerConfig{
		Catalog:     cat,
		Journal:     j,
		History:     history,
		StarterBait: starterBait,
		Logger:      logger,
	})

	if reload > 0 {
		w := catalog.NewWatcher(loader.Paths(), reload, func(path string) {
			loader.Invalidate()
			next, err := loader.Load()
			if err != nil {
				logger.Error("catalog reload rejected", "path", path, "error", err)
				return
			}
			mgr.SetCatalog(next)
			logger.Info("catalog reloaded", "path", path, "version", next.Version)
		})
		w.Start()
		defer w.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(mgr, api.Options{Logger: logger}).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if grpcAddr != "" {
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpc.NewServer()
		rpc.Register(grpcSrv, rpc.NewService(mgr.Catalog, logger))
		go func() {
			logger.Info("grpc listening", "addr", grpcAddr)
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// parseStarterBait reads "worm=20,cricket=5".
func parseStarterBait(s string) (map[string]int, error) {
	out := make(map[string]int)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		id, n, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("%q: want id=quantity", part)
		}
		qty, err := strconv.Atoi(n)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("%q: quantity must be a positive integer", part)
		}
		out[id] = qty
	}
	return out, nil
}
