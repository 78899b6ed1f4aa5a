package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/phi-engine/internal/metrics"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/rpc"
	"github.com/danielpatrickdp/phi-engine/internal/store"
)

// #region main
func main() {
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	addr := envOr("PHID_ADDR", "localhost:50061")
	dbPath := envOr("PHID_DB", "phi_results.db")
	cfgPath := envOr("PHID_CONFIG", "")
	metricsAddr := envOr("PHID_METRICS_ADDR", "localhost:9464")

	cfg := phi.DefaultConfig()
	if cfgPath != "" {
		var err error
		cfg, err = phi.LoadConfig(cfgPath)
		if err != nil {
			slog.Error("failed to load config", "path", cfgPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("engine config",
		"approximation", cfg.Approximation,
		"max_exact_size", cfg.MaxExactSize,
		"cut_kind", cfg.CutKind,
		"parallel", cfg.Parallel,
		"timeout", cfg.Timeout,
		"max_qubits", cfg.MaxQubits,
	)

	st, err := store.Open(dbPath)
	if err != nil {
		slog.Error("failed to open store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("database opened", "path", dbPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}
	srv := grpc.NewServer()
	rpc.RegisterPhiServiceServer(srv, rpc.NewServer(cfg,
		rpc.WithStore(st),
		rpc.WithObserver(recorder),
		rpc.WithLogger(logger),
	))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("metrics listening", "addr", metricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		slog.Info("phid listening", "addr", addr, "service", rpc.ServiceName)
		if err := srv.Serve(lis); err != nil {
			slog.Error("grpc server failed", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(ctx); err != nil {
		slog.Warn("metrics shutdown", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		srv.Stop()
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
