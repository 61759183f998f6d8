package server

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/loginsession"
)

func (s *Server) SetLoginSessionCookie(w http.ResponseWriter, session *loginsession.LoginSession) {
	s.setCookie(w, loginsession.CookieName, session.EncodedToken(), "/", s.deps.Sessions.MaxAge())
}

func (s *Server) setCookie(w http.ResponseWriter, name, value, path string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// safeNext returns where to send the browser after logging in. Local paths are
// always allowed; absolute URLs only when they point at this hub or an
// allow-listed host.
func (s *Server) safeNext(r *http.Request, next string) string {
	if next == "" {
		return RouteHome
	}
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	u, err := url.Parse(next)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return RouteHome
	}
	if strings.HasPrefix(next, s.config.GetBaseURL()+"/") {
		return next
	}
	if _, err := s.deps.Hosts.CheckURL(r.Context(), next); err != nil {
		obs.WithTrace(r.Context()).Warn().Err(err).Str("next", next).Msg("refusing post-login redirect")
		return RouteHome
	}
	return next
}

// clientIP is the address recorded against a new login session. The hub is
// expected to run behind a reverse proxy that sets X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
