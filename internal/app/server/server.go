package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpiflow/internal/domain/auth"
	"kpiflow/internal/domain/hierarchy"
	"kpiflow/internal/domain/kpi"
	"kpiflow/internal/domain/reports"
	"kpiflow/internal/platform/config"
	"kpiflow/internal/platform/db"
	authhandler "kpiflow/internal/transport/http/handlers/auth"
	kpihandler "kpiflow/internal/transport/http/handlers/kpi"
	reportshandler "kpiflow/internal/transport/http/handlers/reports"
	"kpiflow/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	chainStore := hierarchy.NewStore(pool)
	chainService := hierarchy.NewService(chainStore)

	kpiStore := kpi.NewStore(pool)
	historyStore := kpi.NewHistoryStore(kpiStore)
	kpiService := kpi.NewService(kpiStore, historyStore, chainStore, chainStore)

	reportsService := reports.NewService(reports.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)

		kpiHandler := kpihandler.NewHandler(kpiService, chainService)
		kpiHandler.RegisterRoutes(r)

		reportsHandler := reportshandler.NewHandler(reportsService)
		reportsHandler.RegisterRoutes(r)
	})

	return &App{Config: cfg, Pool: pool, Router: router}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}

func Run() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("kpiflow server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
