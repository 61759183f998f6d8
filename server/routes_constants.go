package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome = "/"

	// Forward auth
	RouteSubrequestAuth = "/subrequest-auth"
	RouteConsent        = "/consent"

	// Login & Logout
	RouteLogin         = "/login"
	RouteLoginUpstream = "/login/upstream"
	RouteCallback      = "/callback"
	RouteLogout        = "/logout"

	// Login session management
	RouteSessions         = "/session"
	RouteSessionEnd       = "/session/{id}/end"
	RouteSessionEndOthers = "/session/end-all-others"

	// Admin
	RouteAdminHosts      = "/admin/subrequest-hosts"
	RouteAdminHostDelete = "/admin/subrequest-hosts/{host}/delete"

	// Operations
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"
)

const (
	// nextParam carries the page to return to after logging in.
	nextParam = "n"
	// loginChallengeParam is set by the OIDC provider when it delegates login to the hub.
	loginChallengeParam = "login_challenge"
)
