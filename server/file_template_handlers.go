package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page template together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New("layout.html").ParseFS(TemplateFilesFS(), "layout.html", name)
}

type pages struct {
	login    *template.Template
	consent  *template.Template
	message  *template.Template
	sessions *template.Template
	hosts    *template.Template
	index    *template.Template
	errPage  *template.Template
}

func parsePages() (*pages, error) {
	p := &pages{}
	for name, dst := range map[string]**template.Template{
		"login.html":    &p.login,
		"consent.html":  &p.consent,
		"message.html":  &p.message,
		"sessions.html": &p.sessions,
		"hosts.html":    &p.hosts,
		"index.html":    &p.index,
		"error.html":    &p.errPage,
	} {
		t, err := ParseTemplate(name)
		if err != nil {
			return nil, err
		}
		*dst = t
	}
	return p, nil
}

// layoutData is what every page gets; Page carries the page specific model.
type layoutData struct {
	AppName  string
	Title    string
	LoggedIn bool
	IsAdmin  bool
	Page     any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, tmpl *template.Template, title string, page any) {
	data := layoutData{AppName: s.config.GetAppName(), Title: title, Page: page}
	if sd := sessionFromContext(r); sd != nil {
		data.LoggedIn = true
		data.IsAdmin = sd.User.IsAdmin
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		obs.WithTrace(r.Context()).Error().Err(err).Str("template", tmpl.Name()).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError answers with the status the error maps to. Internal details are
// only logged.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	logger := obs.WithTrace(r.Context())
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = "Something went wrong. Please try again later."
	} else {
		logger.Info().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	s.render(w, r, status, s.pages.errPage, http.StatusText(status), message)
}
