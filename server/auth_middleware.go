package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/loginsession"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the validated *loginsession.SessionData
const ContextKeySession ContextKey = "session"

// RequireLogin validates the login session cookie. Browsers without a usable
// session are sent to the login page with the current URL as the way back.
func (s *Server) RequireLogin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sd, required, err := s.currentSession(r)
			if err != nil {
				s.renderError(w, r, err)
				return
			}
			if required != nil {
				obs.WithTrace(r.Context()).Debug().Str("path", r.URL.Path).Msg(required.String())
				if required.Reason != loginsession.ReasonNotFound {
					s.clearCookie(w, loginsession.CookieName)
				}
				http.Redirect(w, r, RouteLogin+"?"+nextParam+"="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, sd)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin must be chained after RequireLogin.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sd := sessionFromContext(r)
			if sd == nil || !sd.User.IsAdmin {
				s.renderError(w, r, errors.Wrapf(errors.ErrForbidden, "administrator privileges required"))
				return
			}
			next(w, r)
		}
	}
}

// currentSession validates the login cookie, if any. A missing cookie is
// reported like an unknown session.
func (s *Server) currentSession(r *http.Request) (*loginsession.SessionData, *loginsession.LoginRequired, error) {
	cookie, err := r.Cookie(loginsession.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, &loginsession.LoginRequired{Reason: loginsession.ReasonNotFound}, nil
	}
	return s.deps.Sessions.Validate(r.Context(), cookie.Value)
}

func sessionFromContext(r *http.Request) *loginsession.SessionData {
	sd, _ := r.Context().Value(ContextKeySession).(*loginsession.SessionData)
	return sd
}
