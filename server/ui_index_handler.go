package server

import (
	"net/http"
)

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sd := sessionFromContext(r)
		s.render(w, r, http.StatusOK, s.pages.index, s.config.GetAppName(), sd.User)
	}
}
