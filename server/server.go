package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-hub/consent"
	"github.com/jrsteele09/go-auth-hub/forwardauth"
	"github.com/jrsteele09/go-auth-hub/grants"
	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/interaction"
	"github.com/jrsteele09/go-auth-hub/internal/config"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/users"
	"github.com/rs/zerolog/log"
)

// Deps are the services the HTTP surface is built on. Provider and Upstream
// are optional.
type Deps struct {
	Users       *users.Directory
	Sessions    *loginsession.Store
	Grants      *grants.Store
	Hosts       *hosts.AllowList
	ForwardAuth *forwardauth.Coordinator
	Consent     *consent.Gateway
	Provider    interaction.Provider
	Upstream    *UpstreamLogin
	Health      func(ctx context.Context) error
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Deps
	pages  *pages
}

func New(ctx context.Context, config config.Config, deps Deps) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}
	if deps.Health == nil {
		deps.Health = func(context.Context) error { return nil }
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		deps:   deps,
		pages:  pages,
	}
	s.env = config.GetEnv()

	if err := s.InitialiseSystem(ctx); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
