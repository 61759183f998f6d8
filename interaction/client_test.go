package interaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-hub/interaction"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider(t *testing.T) {
	var acceptBody interaction.AcceptConsent
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/oauth2/auth/requests/consent", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("consent_challenge") != "c1" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(interaction.ConsentRequest{
			Challenge:      "c1",
			Subject:        "user-1",
			RequestedScope: []string{"openid", "profile"},
			Client:         &interaction.Client{ClientID: "app", ClientName: "App"},
		})
	})
	mux.HandleFunc("PUT /admin/oauth2/auth/requests/consent/accept", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&acceptBody))
		_, _ = w.Write([]byte(`{"redirect_to":"https://provider.example.org/done"}`))
	})
	mux.HandleFunc("PUT /admin/oauth2/auth/requests/consent/reject", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("PUT /admin/oauth2/auth/requests/login/accept", func(w http.ResponseWriter, r *http.Request) {
		var body interaction.AcceptLogin
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "user-1", body.Subject)
		_, _ = w.Write([]byte(`{"redirect_to":"https://provider.example.org/login-done"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	p := interaction.NewHTTPProvider(srv.URL+"/", time.Second)

	t.Run("consent request", func(t *testing.T) {
		req, err := p.ConsentRequest(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, "user-1", req.Subject)
		require.Equal(t, "App", req.Client.ClientName)
	})

	t.Run("unknown challenge", func(t *testing.T) {
		_, err := p.ConsentRequest(ctx, "nope")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("accept", func(t *testing.T) {
		to, err := p.AcceptConsent(ctx, "c1", interaction.AcceptConsent{GrantScope: []string{"openid"}, Remember: true})
		require.NoError(t, err)
		require.Equal(t, "https://provider.example.org/done", to)
		require.Equal(t, []string{"openid"}, acceptBody.GrantScope)
	})

	t.Run("provider failure", func(t *testing.T) {
		_, err := p.RejectConsent(ctx, "c1", interaction.Rejection{Error: "access_denied"})
		require.ErrorIs(t, err, errors.ErrProvider)
	})

	t.Run("accept login", func(t *testing.T) {
		to, err := p.AcceptLogin(ctx, "l1", interaction.AcceptLogin{Subject: "user-1"})
		require.NoError(t, err)
		require.Equal(t, "https://provider.example.org/login-done", to)
	})

	t.Run("empty challenge", func(t *testing.T) {
		_, err := p.LoginRequest(ctx, "")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})
}
