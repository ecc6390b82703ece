package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/abadmin/internal/accounts"
	"github.com/emiliopalmerini/abadmin/internal/experiments"
	sharedmw "github.com/emiliopalmerini/abadmin/internal/shared/middleware"
	"github.com/emiliopalmerini/abadmin/internal/web/templates"
)

// Config holds server-specific configuration.
type Config struct {
	Addr            string
	SecretKey       string
	SecureCookies   bool
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	AdminUsername   string
	AdminPassword   string
	// ButtonExperiment is the ID or name of the landing page experiment.
	ButtonExperiment string
}

type Server struct {
	cfg         Config
	router      chi.Router
	experiments *experiments.Service
	accounts    *accounts.Service
	sessions    *SessionManager
}

func NewServer(cfg Config, exps *experiments.Service, accts *accounts.Service) *Server {
	if cfg.ButtonExperiment == "" {
		cfg.ButtonExperiment = experiments.ButtonExperimentName
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		cfg:         cfg,
		router:      chi.NewRouter(),
		experiments: exps,
		accounts:    accts,
		sessions:    NewSessionManager(cfg.SecretKey, cfg.SecureCookies),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sharedmw.NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst).Handler)
	r.Use(sharedmw.HTMX)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)

		r.Get("/", s.handleLanding)
		r.Get("/register", s.handleRegisterForm)
		r.Post("/register", s.handleRegister)
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/personal", s.handlePersonal)

		r.Route("/admin", func(r chi.Router) {
			if s.cfg.AdminUsername != "" && s.cfg.AdminPassword != "" {
				r.Use(middleware.BasicAuth("abadmin", map[string]string{
					s.cfg.AdminUsername: s.cfg.AdminPassword,
				}))
			}
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin/experiments", http.StatusFound)
			})
			r.Get("/experiments", s.handleExperiments)
			r.Post("/experiments", s.handleCreateExperiment)
			r.Get("/experiments/{id}", s.handleExperimentDetail)
			r.Post("/experiments/{id}", s.handleExperimentUpdate)
			r.Post("/experiments/{id}/variants", s.handleAddVariant)
			r.Get("/funnel", s.handleFunnel)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, errPageNotFound)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server at %s", s.cfg.Addr)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		log.Printf("web: render %s: %v", r.URL.Path, err)
	}
}

// page fills the layout fields shared by every view.
func (s *Server) page(r *http.Request, title string) templates.Page {
	return templates.Page{Title: title, Username: SessionFrom(r.Context()).Username}
}
