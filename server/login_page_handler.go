package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-auth-hub/interaction"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/users"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Action      string
	Username    string // Preserve username on error
	Error       string
	UpstreamURL string
}

// LoginPageUIHandler displays the login page (GET /login). A browser that is
// already logged in goes straight on to its destination.
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sd, required, err := s.currentSession(r)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if required == nil {
			s.finishLogin(w, r, sd.User)
			return
		}
		if s.skipProviderLogin(w, r) {
			return
		}
		s.renderLogin(w, r, http.StatusOK, "", "")
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "invalid form data"))
			return
		}
		username := r.PostForm.Get("username")
		password := r.PostForm.Get("password")

		user, err := s.deps.Users.Authenticate(r.Context(), username, password)
		if errors.Is(err, errors.ErrInvalidCredentials) {
			obs.WithTrace(r.Context()).Info().Str("username", username).Msg("failed login")
			s.renderLogin(w, r, http.StatusUnauthorized, username, "Invalid username or password")
			return
		}
		if err != nil {
			s.renderError(w, r, err)
			return
		}

		if err := s.startSession(w, r, user); err != nil {
			s.renderError(w, r, err)
			return
		}
		s.finishLogin(w, r, user)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(loginsession.CookieName); err == nil {
			if err := s.deps.Sessions.Logout(r.Context(), cookie.Value); err != nil {
				s.renderError(w, r, err)
				return
			}
		}
		s.clearCookie(w, loginsession.CookieName)
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *users.User) error {
	session, err := s.deps.Sessions.Create(r.Context(), user.ID, clientIP(r))
	if err != nil {
		return err
	}
	s.SetLoginSessionCookie(w, session)
	obs.WithTrace(r.Context()).Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("login session started")
	return nil
}

// finishLogin sends a logged in browser on: back to the OIDC provider when it
// delegated the login, else to the requested page.
func (s *Server) finishLogin(w http.ResponseWriter, r *http.Request, user *users.User) {
	if challenge := r.URL.Query().Get(loginChallengeParam); challenge != "" && s.deps.Provider != nil {
		to, err := s.deps.Provider.AcceptLogin(r.Context(), challenge, interaction.AcceptLogin{
			Subject:     user.ID,
			Remember:    true,
			RememberFor: int64(s.deps.Sessions.MaxAge().Seconds()),
		})
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, s.safeNext(r, r.URL.Query().Get(nextParam)), http.StatusSeeOther)
}

// skipProviderLogin completes a delegated login the provider already
// remembers, without asking for credentials again.
func (s *Server) skipProviderLogin(w http.ResponseWriter, r *http.Request) bool {
	challenge := r.URL.Query().Get(loginChallengeParam)
	if challenge == "" || s.deps.Provider == nil {
		return false
	}
	lr, err := s.deps.Provider.LoginRequest(r.Context(), challenge)
	if err != nil {
		s.renderError(w, r, err)
		return true
	}
	if !lr.Skip {
		return false
	}
	to, err := s.deps.Provider.AcceptLogin(r.Context(), challenge, interaction.AcceptLogin{Subject: lr.Subject})
	if err != nil {
		s.renderError(w, r, err)
		return true
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
	return true
}

// renderLogin shows the form. The form posts back to the same query so the
// destination and any login challenge survive.
func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, username, errMsg string) {
	data := LoginPageData{
		Action:   RouteLogin,
		Username: username,
		Error:    errMsg,
	}
	if r.URL.RawQuery != "" {
		data.Action += "?" + r.URL.RawQuery
	}
	if s.deps.Upstream != nil {
		q := url.Values{}
		if n := r.URL.Query().Get(nextParam); n != "" {
			q.Set(nextParam, n)
		}
		data.UpstreamURL = RouteLoginUpstream
		if len(q) > 0 {
			data.UpstreamURL += "?" + q.Encode()
		}
	}
	s.render(w, r, status, s.pages.login, "Log in", data)
}
