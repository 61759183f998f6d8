package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-hub/internal/obs"
)

// SubrequestAuthHandler answers the reverse proxy's auth subrequest. Only the
// status code matters to the proxy.
func (s *Server) SubrequestAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.deps.ForwardAuth.Check(r)

		logger := obs.WithTrace(r.Context())
		switch {
		case d.Status == http.StatusBadRequest:
			logger.Warn().Err(d.Err).Msg("bad subrequest auth request")
		case d.Status >= http.StatusInternalServerError:
			logger.Error().Err(d.Err).Msg("subrequest auth failed")
		case d.Err != nil:
			logger.Debug().Err(d.Err).Msg("subrequest auth denied")
		}

		if d.SetCookie != nil {
			http.SetCookie(w, d.SetCookie)
		}
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(d.Status)
	}
}
