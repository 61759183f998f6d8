package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-hub/consent"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

func (s *Server) ConsentGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := consent.ParseGet(r.URL.Query())
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		prompt, err := s.deps.Consent.Prompt(r.Context(), sessionFromContext(r), req)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if prompt.RedirectURL != "" {
			http.Redirect(w, r, prompt.RedirectURL, http.StatusFound)
			return
		}
		s.render(w, r, http.StatusOK, s.pages.consent, "Consent", prompt)
	}
}

func (s *Server) ConsentPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "invalid form data"))
			return
		}
		sub, err := consent.ParsePost(r.PostForm)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		out, err := s.deps.Consent.Submit(r.Context(), sessionFromContext(r), sub)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if out.RedirectURL != "" {
			http.Redirect(w, r, out.RedirectURL, http.StatusFound)
			return
		}
		s.render(w, r, http.StatusOK, s.pages.message, out.Message, out.Message)
	}
}
