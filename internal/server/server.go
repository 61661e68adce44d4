package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/auth"
	"github.com/reelstack/apiserver/internal/cache"
	"github.com/reelstack/apiserver/internal/db"
	"github.com/reelstack/apiserver/internal/handlers"
	"github.com/reelstack/apiserver/internal/mq"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/internal/storage"
	"github.com/reelstack/apiserver/internal/store"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	cache      *cache.Cache
	events     *mq.MQ
}

// New constructs a Server wired against the configured backends.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	listCache := cache.New(cfg.Redis)

	events, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	posterStore, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if posterStore != nil {
		if err := posterStore.EnsureBucket(ctx); err != nil {
			log.Printf("poster bucket check failed: %v", err)
		}
	}

	userRepo := store.NewUserRepository(dbConn)
	movieRepo := store.NewMovieRepository(dbConn)
	reviewRepo := store.NewReviewRepository(dbConn)

	userService := services.NewUserService(userRepo, listCache)
	movieService := services.NewMovieService(movieRepo, posterStore, listCache)
	reviewService := services.NewReviewService(reviewRepo, events, listCache, cfg.ReviewEditPolicy)

	authMiddleware := handlers.RequireAuth(issuer)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, issuer)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService)
		})
		r.Route("/movies", func(r chi.Router) {
			handlers.MovieRouter(r, movieService, issuer)
		})
		r.Route("/reviews", func(r chi.Router) {
			handlers.ReviewRouter(r, reviewService, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		cache:      listCache,
		events:     events,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.events != nil {
		_ = s.events.Close()
	}
	return s.httpServer.Close()
}
