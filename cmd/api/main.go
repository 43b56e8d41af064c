package main

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	apphttp "bookstore/internal/http"
	"bookstore/internal/httpx"
	"bookstore/internal/logger"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	repo, err := openRepo(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open book store")
	}
	defer repo.Close()

	bookHandler := apphttp.NewBookHandler(repo)

	mux := http.NewServeMux()
	bookHandler.Register(mux)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rateLimit := httpx.NewRateLimitMiddleware(50, 100)
	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware,
		httpx.RequestSizeLimitMiddleware(maxBodyBytes),
		rateLimit.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	log.Info().
		Str("addr", cfg.ServerAddr).
		Str("driver", cfg.DatabaseDriver).
		Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}

func openRepo(cfg *config.Config) (book.Repository, error) {
	if cfg.DatabaseDriver == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return book.OpenPostgres(ctx, cfg.DatabaseDSN)
	}
	return book.OpenSQLite(cfg.DatabasePath)
}
