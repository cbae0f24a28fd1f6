// Package main is our entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/yuto1106110/plus-chat-api/internal/auth"
	"github.com/yuto1106110/plus-chat-api/internal/chat"
	"github.com/yuto1106110/plus-chat-api/internal/config"
	"github.com/yuto1106110/plus-chat-api/internal/handler"
	"github.com/yuto1106110/plus-chat-api/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting application...")

	// Credentials go to Postgres when DB_URL is set, otherwise they live
	// in memory for the lifetime of the process.
	var userStore store.UserStore
	var pool *pgxpool.Pool

	if cfg.DatabaseURL != "" {
		log.Println("Initializing Database connection...")

		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("could not connect to the postgresql database: %v", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatalf("failed to set goose dialect: %v", err)
		}
		gooseDB := stdlib.OpenDBFromPool(pool)
		if err := goose.Up(gooseDB, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		if err := gooseDB.Close(); err != nil {
			log.Printf("failed to close migration handle: %v", err)
		}

		userStore = store.NewPostgres(pool)
	} else {
		log.Println("DB_URL not set; using volatile in-memory credential store")
		userStore = store.NewMemory()
	}

	gate := auth.NewGate(userStore, cfg.JWTSecret, cfg.TokenTTL)

	// hub.Run is our central hub that is always listening for client
	// related events.
	hub := chat.NewHub(chat.NewRing(cfg.HistoryCapacity))
	go hub.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/auth", handler.Auth(gate))
	r.Post("/api/register", handler.Register(gate))
	r.Post("/api/login", handler.Login(gate))
	r.Get("/ws", handler.ServeWs(hub, cfg.JWTSecret))
	r.Get("/healthcheck", handler.ServeHealthcheck())
	r.Get("/", handler.ServeRoot())

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		log.Printf("Server starting at 0.0.0.0:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	if pool != nil {
		pool.Close()
	}

	log.Println("Server stopped")
}
