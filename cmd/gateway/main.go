package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/coding-online/mco-exam/internal/api/http"
	auth "github.com/coding-online/mco-exam/internal/auth/middleware"
	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/config"
	"github.com/coding-online/mco-exam/internal/db"
	"github.com/coding-online/mco-exam/internal/exam"
	"github.com/coding-online/mco-exam/internal/grading"
	"github.com/coding-online/mco-exam/internal/logging"
	"github.com/coding-online/mco-exam/internal/policy"
	"github.com/coding-online/mco-exam/internal/results"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.Mode == config.ModeOnline)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// --- Catalog ---
	cat := catalog.New(catalog.DefaultExams(), catalog.DefaultTopics())
	var feed catalog.FeedSource
	if cfg.QuestionFeedURL != "" {
		feed = catalog.NewHTTPFeed(cfg.QuestionFeedURL)
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		if err := cat.Refresh(ctx, feed); err != nil {
			// Startup continues; the admin refresh endpoint can retry.
			logger.Warn("initial question feed load failed", "err", err)
		}
		cancel()
	} else {
		logger.Warn("QUESTION_FEED_URL not set; catalog starts empty")
	}

	// --- Result store ---
	store, err := openResultStore(cfg)
	if err != nil {
		logger.Fatal("result store", "backend", cfg.ResultStore, "err", err)
	}

	// --- Core services ---
	gate := policy.NewGate(cfg.PracticeAttemptLimit, cfg.CertAttemptLimit)
	svc := exam.NewService(cat, exam.NewManager(), gate, grading.NewScorer(), store, logger)
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc))
	}

	r.Get("/exams", api.ListExamsHandler(cat))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Post("/attempts", api.StartAttemptHandler(svc))
		pr.Get("/attempts/{attemptID}", api.GetAttemptHandler(svc))
		pr.Post("/attempts/{attemptID}/answers", api.SaveAnswerHandler(svc))
		pr.Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(svc))

		pr.Get("/results", api.ListResultsHandler(store, cat))
		pr.Get("/results/{testID}", api.GetResultHandler(store, cat, logger))
	})

	if feed != nil {
		r.With(auth.RequireAdmin(cfg.AdminUser, cfg.AdminPassHash)).
			Post("/admin/catalog/refresh", api.RefreshCatalogHandler(cat, feed, logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", string(cfg.Mode), "store", cfg.ResultStore)
	logger.Fatal("server exited", "err", http.ListenAndServe(cfg.HTTPAddr, r))
}

func openResultStore(cfg config.Config) (results.Store, error) {
	switch cfg.ResultStore {
	case "memory":
		return results.NewInMemoryStore(), nil
	case "redis":
		return results.NewRedisStore(cfg.RedisAddr)
	default: // sqlite | postgres
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.ResultStore), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return results.NewSQLStore(dbh), nil
	}
}
