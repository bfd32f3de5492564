package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/api/handler"
	mw "github.com/edvin/dbaccess/internal/api/middleware"
	"github.com/edvin/dbaccess/internal/core"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	checks   map[string]ReadinessCheck
}

func NewServer(logger zerolog.Logger, services *core.Services, checks map[string]ReadinessCheck) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		checks:   checks,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Roles
		role := handler.NewRole(s.services.Catalog)
		r.Get("/roles", role.List)
		r.Post("/roles", role.Create)
		r.Get("/roles/{id}", role.Get)
		r.Delete("/roles/{id}", role.Delete)
		r.Get("/roles/{id}/privileges", role.ListPrivileges)
		r.Post("/roles/{id}/privileges", role.AddPrivilege)
		r.Delete("/roles/{id}/privileges/{privilegeID}", role.RemovePrivilege)

		// Privileges
		privilege := handler.NewPrivilege(s.services.Catalog)
		r.Get("/privileges", privilege.List)
		r.Post("/privileges", privilege.Create)
		r.Get("/privileges/{id}", privilege.Get)
		r.Delete("/privileges/{id}", privilege.Delete)

		// Database users
		dbUser := handler.NewDatabaseUser(s.services.Accounts, s.services.Resolver, s.services.Synchronizer)
		r.Get("/database-users", dbUser.List)
		r.Post("/database-users", dbUser.Create)
		r.Get("/database-users/{id}", dbUser.Get)
		r.Delete("/database-users/{id}", dbUser.Delete)
		r.Get("/database-users/{id}/effective-privileges", dbUser.EffectivePrivileges)
		r.Post("/database-users/{id}/apply", dbUser.Apply)

		// Scoped role assignments
		assignment := handler.NewAssignment(s.services.Assignments)
		r.Get("/database-users/{userID}/roles", assignment.List)
		r.Post("/database-users/{userID}/roles", assignment.Create)
		r.Delete("/database-users/{userID}/roles/{id}", assignment.Delete)

		// Direct privileges
		direct := handler.NewDirectPrivilege(s.services.DirectGrants)
		r.Get("/database-users/{userID}/privileges", direct.List)
		r.Post("/database-users/{userID}/privileges", direct.Create)
		r.Delete("/database-users/{userID}/privileges/{id}", direct.Delete)

		// Maintenance
		maintenance := handler.NewMaintenance(s.services.Accounts)
		r.Post("/maintenance/sync-accounts", maintenance.SyncAccounts)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := map[string]string{}
	healthy := true
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(results)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
