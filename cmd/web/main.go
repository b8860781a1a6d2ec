package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/config"
	"polarismall.org/mall-web/internal/i18n"
	mw "polarismall.org/mall-web/internal/middleware"
)

func main() {
	// .env is optional and only seeds missing variables.
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bundle, err := i18n.Load(cfg.LocalesDir, cfg.DefaultLocale, []string{"zh", "en"})
	if err != nil {
		logger.Fatal("load locales", zap.Error(err))
	}

	app := newApp(cfg, logger, bundle)
	handler := newHandler(app)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening",
		zap.String("addr", cfg.Addr),
		zap.String("env", cfg.Env),
		zap.String("api", cfg.APIBaseURL),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newHandler assembles the outer middleware stack around the view router.
func newHandler(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.VaryLocale)
	r.Use(mw.Session(app.store))
	r.Use(mw.Locale(app.bundle))
	r.Use(mw.CSRF)
	r.Use(mw.Logger(app.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	assets := mw.AssetsWithCache(filepath.Join(app.cfg.PublicDir, "assets"), "")
	r.Handle("/assets/*", http.StripPrefix("/assets", assets))

	r.Handle("/*", app.routes())
	return r
}
