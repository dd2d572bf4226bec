package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"dicomgate/internal/access"
	"dicomgate/internal/audit"
	audithandler "dicomgate/internal/audit/handler"
	auditstore "dicomgate/internal/audit/store"
	"dicomgate/internal/auth"
	"dicomgate/internal/dimse"
	endpointhandler "dicomgate/internal/endpoint/handler"
	endpointstore "dicomgate/internal/endpoint/store"
	"dicomgate/internal/gateway"
	gatewayhandler "dicomgate/internal/gateway/handler"
	"dicomgate/internal/platform/config"
	"dicomgate/internal/platform/httpserver"
	"dicomgate/internal/platform/logger"
	"dicomgate/internal/platform/metrics"
	"dicomgate/internal/platform/middleware"
	"dicomgate/internal/platform/postgres"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		endpoints endpointstore.Store
		auditLog  audit.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		endpoints = endpointstore.NewPostgres(db)
		auditLog = auditstore.NewPostgres(db)
	} else {
		// Development fallback. The audit trail does not survive a restart, so
		// production runs must set POSTGRES_DSN.
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		endpoints = endpointstore.NewMemory()
		auditLog = auditstore.NewMemory()
	}

	m := metrics.New()
	policy := access.NewPolicy()
	recorder := audit.NewRecorder(auditLog)
	tokens := auth.NewJWTService(cfg.JWTSigningKey, "dicomgate")
	factory := dimse.NewNetFactory(log, cfg.AssociationTimeout)
	service := gateway.NewService(policy, endpoints, recorder, factory, log, m)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, log))
		gatewayhandler.New(service, log).Register(r)
		endpointhandler.New(endpoints, policy, log).Register(r)
		audithandler.New(auditLog, policy, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting dicomgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
