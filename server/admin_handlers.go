package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
)

type hostsPageData struct {
	Hosts []string
	Error string
}

// AdminHostsHandler lists the hosts allowed to use subrequest auth
func (s *Server) AdminHostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderHosts(w, r, http.StatusOK, "")
	}
}

func (s *Server) AdminAddHostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "invalid form data"))
			return
		}
		host, err := s.deps.Hosts.Add(r.Context(), r.PostForm.Get("host"))
		if err != nil {
			if status := errors.HTTPStatus(err); status < http.StatusInternalServerError {
				s.renderHosts(w, r, status, err.Error())
				return
			}
			s.renderError(w, r, err)
			return
		}
		obs.WithTrace(r.Context()).Info().Str("host", host).Str("by", sessionFromContext(r).User.Username).Msg("subrequest host added")
		http.Redirect(w, r, RouteAdminHosts, http.StatusSeeOther)
	}
}

func (s *Server) AdminDeleteHostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := r.PathValue("host")
		if err := s.deps.Hosts.Remove(r.Context(), host); err != nil {
			s.renderError(w, r, err)
			return
		}
		obs.WithTrace(r.Context()).Info().Str("host", host).Str("by", sessionFromContext(r).User.Username).Msg("subrequest host removed")
		http.Redirect(w, r, RouteAdminHosts, http.StatusSeeOther)
	}
}

func (s *Server) renderHosts(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	list, err := s.deps.Hosts.List(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, status, s.pages.hosts, "Subrequest auth hosts", hostsPageData{Hosts: list, Error: errMsg})
}
