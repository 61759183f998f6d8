package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/loginsession"
)

type sessionsPageData struct {
	CurrentID string
	Sessions  []loginsession.SessionWithGrants
}

// SessionsHandler lists the user's login sessions and the hosts each one has
// granted.
func (s *Server) SessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sd := sessionFromContext(r)
		list, err := s.deps.Sessions.ListWithGrants(r.Context(), sd.User.ID)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, s.pages.sessions, "Login sessions", sessionsPageData{
			CurrentID: sd.Session.ID,
			Sessions:  list,
		})
	}
}

func (s *Server) EndSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sd := sessionFromContext(r)
		id := r.PathValue("id")
		err := s.deps.Sessions.End(r.Context(), sd.User.ID, id)
		if errors.Is(err, errors.ErrSessionNotFound) {
			s.renderError(w, r, errors.Wrapf(errors.ErrNotFound, "session %s", id))
			return
		}
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		obs.WithTrace(r.Context()).Info().Str("user_id", sd.User.ID).Str("session_id", id).Msg("login session ended")

		if id == sd.Session.ID {
			s.clearCookie(w, loginsession.CookieName)
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteSessions, http.StatusSeeOther)
	}
}

func (s *Server) EndOtherSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sd := sessionFromContext(r)
		n, err := s.deps.Sessions.EndAllExcept(r.Context(), sd.User.ID, sd.Session.ID)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		obs.WithTrace(r.Context()).Info().Str("user_id", sd.User.ID).Int64("ended", n).Msg("ended other login sessions")
		http.Redirect(w, r, RouteSessions, http.StatusSeeOther)
	}
}
