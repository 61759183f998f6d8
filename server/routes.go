package server

import (
	"github.com/jrsteele09/go-auth-hub/internal/obs"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteSubrequestAuth, ChainMiddleware(s.SubrequestAuthHandler(), s.RecoverMiddleware))

	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLoginUpstream, ChainMiddleware(s.UpstreamLoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.UpstreamCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare(s.RequireLogin())...))

	s.RegisterRouteHandler("GET "+RouteConsent, ChainMiddleware(s.ConsentGetHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteConsent, ChainMiddleware(s.ConsentPostHandler(), s.HTMLMiddleWare(s.RequireLogin())...))

	s.RegisterRouteHandler("GET "+RouteSessions, ChainMiddleware(s.SessionsHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteSessionEnd, ChainMiddleware(s.EndSessionHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteSessionEndOthers, ChainMiddleware(s.EndOtherSessionsHandler(), s.HTMLMiddleWare(s.RequireLogin())...))

	s.RegisterRouteHandler("GET "+RouteAdminHosts, ChainMiddleware(s.AdminHostsHandler(), s.HTMLMiddleWare(s.RequireLogin(), s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminHosts, ChainMiddleware(s.AdminAddHostHandler(), s.HTMLMiddleWare(s.RequireLogin(), s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminHostDelete, ChainMiddleware(s.AdminDeleteHostHandler(), s.HTMLMiddleWare(s.RequireLogin(), s.RequireAdmin())...))

	s.RegisterRouteHandler("GET "+RouteMetrics, obs.MetricsHandler())
	s.RegisterRouteFunc("GET "+RouteHealthz, obs.HealthHandler(s.deps.Health))

	s.RegisterRouteHandler("GET "+RouteHome+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
}
