// Package httpapi exposes the public HTTP/JSON surface: registration, login,
// plan generation, and history. It is a thin layer over the services; all
// business rules live below it.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fitplan/internal/logging"
	"fitplan/internal/server/config"
	"fitplan/internal/server/models"
	"fitplan/internal/server/services"
)

type userService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type planService interface {
	Generate(ctx context.Context, userID int64, input *models.PlanInput) (*services.GeneratedPlan, error)
	History(ctx context.Context, userID int64) ([]models.PlanRecord, error)
}

// Server wires the HTTP routes to the services.
type Server struct {
	addr        string
	logger      logging.Logger
	users       userService
	plans       planService
	jwtSecret   []byte
	corsOrigins []string
}

func NewServer(cfg *config.Config, logger logging.Logger, users userService, plans planService) *Server {
	return &Server{
		addr:        cfg.EndpointAddr,
		logger:      logger,
		users:       users,
		plans:       plans,
		jwtSecret:   []byte(cfg.SecretKey),
		corsOrigins: cfg.CORSAllowedOrigins,
	}
}

// Handler builds the route tree. Split from Run so tests can drive the full
// middleware stack through httptest without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(s.requestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/recommendation", s.handleRecommendation)
			r.Get("/history", s.handleHistory)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "HTTP server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
