// Package server wires the dependency graph and defines every route. It
// is the composition root: main.go loads config and hands it here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/codescribe/internal/auth"
	"github.com/sakif/codescribe/internal/config"
	"github.com/sakif/codescribe/internal/gemini"
	"github.com/sakif/codescribe/internal/github"
	"github.com/sakif/codescribe/internal/handler"
	"github.com/sakif/codescribe/internal/mail"
	"github.com/sakif/codescribe/internal/middleware"
	sqliteRepo "github.com/sakif/codescribe/internal/repository/sqlite"
	"github.com/sakif/codescribe/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown. The database connection is closed after the HTTP server
// drains so in-flight requests keep a live handle.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// DB → repositories → services → handlers → routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// Router exposes the configured handler chain, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}).Handler)

	// Services.
	mailer := mail.NewSMTPMailer(s.cfg.SMTP)
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), mailer, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)
	envVarService := service.NewEnvVariableService(s.db, s.logger)

	aiClient := gemini.New(s.cfg.GeminiAPIKey)
	ghClient := github.New(s.cfg.GitHubToken)
	docService := service.NewDocumentationService(aiClient, s.db, s.logger)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	envVarHandler := handler.NewEnvVariableHandler(envVarService, s.logger)
	docHandler := handler.NewDocumentationHandler(docService, ghClient, s.logger)
	diagramHandler := handler.NewDiagramHandler(docService, s.logger)
	aiHandler := handler.NewAIHandler(aiClient, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/forgot-password", authHandler.HandleForgotPassword)
			r.Post("/verify-otp", authHandler.HandleVerifyOTP)
			r.Post("/reset-password", authHandler.HandleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/snippets", snippetHandler.HandleList)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)

			r.Get("/env-variables", envVarHandler.HandleList)
			r.Post("/env-variables", envVarHandler.HandleCreate)
			r.Put("/env-variables/{id}", envVarHandler.HandleUpdate)
			r.Delete("/env-variables/{name}", envVarHandler.HandleDelete)

			r.Post("/documentation/fetch-repo", docHandler.HandleFetchRepo)
			r.Post("/documentation/generate", docHandler.HandleGenerate)
			r.Post("/documentation/fetch-file", docHandler.HandleFetchFile)

			r.Post("/diagrams/generate", diagramHandler.HandleGenerate)

			r.Post("/ai/generate", aiHandler.HandleGenerate)
		})
	})
}

// Start serves HTTP until a shutdown signal arrives, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
