package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-hub/internal/config"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/token"
	"golang.org/x/oauth2"
)

const (
	upstreamStateCookie = "upstream-login-state"
	upstreamStateTTL    = 10 * time.Minute
)

// UpstreamLogin lets users log in through an external OpenID Connect provider
// instead of a local password. Accounts are matched on preferred_username.
type UpstreamLogin struct {
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
	signer   token.Signer
}

// NewUpstreamLogin discovers the provider at the configured issuer. The signer
// protects the login state cookie.
func NewUpstreamLogin(ctx context.Context, cfg config.UpstreamConfig, baseURL string, signer token.Signer) (*UpstreamLogin, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetUpstreamIssuer())
	if err != nil {
		return nil, fmt.Errorf("[server NewUpstreamLogin] failed to create OIDC provider: %w", err)
	}
	return NewUpstreamLoginWithEndpoint(
		&oauth2.Config{
			ClientID:     cfg.GetUpstreamClientID(),
			ClientSecret: cfg.GetUpstreamClientSecret(),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  baseURL + RouteCallback,
			Scopes:       cfg.GetUpstreamScopes(),
		},
		provider.Verifier(&oidc.Config{ClientID: cfg.GetUpstreamClientID()}),
		signer,
	), nil
}

func NewUpstreamLoginWithEndpoint(cfg *oauth2.Config, verifier *oidc.IDTokenVerifier, signer token.Signer) *UpstreamLogin {
	return &UpstreamLogin{oauth2: cfg, verifier: verifier, signer: signer}
}

// UpstreamLoginHandler starts the authorization code flow with PKCE. State,
// nonce and verifier travel in a signed cookie scoped to the callback.
func (s *Server) UpstreamLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up := s.deps.Upstream
		if up == nil {
			http.NotFound(w, r)
			return
		}
		state := uuid.NewString()
		nonce := uuid.NewString()
		verifier := oauth2.GenerateVerifier()

		signed, err := up.signer.Sign(jwt.MapClaims{
			"state":    state,
			"nonce":    nonce,
			"verifier": verifier,
			"next":     r.URL.Query().Get(nextParam),
			"exp":      time.Now().Add(upstreamStateTTL).Unix(),
		})
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		s.setCookie(w, upstreamStateCookie, signed, RouteCallback, upstreamStateTTL)

		authURL := up.oauth2.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.S256ChallengeOption(verifier))
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

func (s *Server) UpstreamCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up := s.deps.Upstream
		if up == nil {
			http.NotFound(w, r)
			return
		}
		if errorParam := r.FormValue("error"); errorParam != "" {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "authorization failed: %s - %s", errorParam, r.FormValue("error_description")))
			return
		}
		code := r.FormValue("code")
		state := r.FormValue("state")
		if code == "" || state == "" {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "missing code or state parameter"))
			return
		}

		cookie, err := r.Cookie(upstreamStateCookie)
		if err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "login state cookie missing"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: upstreamStateCookie, Path: RouteCallback, MaxAge: -1})

		claims, err := up.signer.Verify(cookie.Value)
		if err != nil {
			s.renderError(w, r, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		if claims["state"] != state {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "invalid state parameter"))
			return
		}
		verifier, _ := claims["verifier"].(string)
		nonce, _ := claims["nonce"].(string)
		next, _ := claims["next"].(string)

		oauth2Token, err := up.oauth2.Exchange(r.Context(), code, oauth2.VerifierOption(verifier))
		if err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrProvider, "token exchange failed: %v", err))
			return
		}
		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			s.renderError(w, r, errors.Wrapf(errors.ErrProvider, "no id_token in token response"))
			return
		}
		idToken, err := up.verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidToken, "id token verification failed: %v", err))
			return
		}

		var idClaims struct {
			Nonce             string `json:"nonce"`
			PreferredUsername string `json:"preferred_username"`
		}
		if err := idToken.Claims(&idClaims); err != nil {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidToken, "id token claims: %v", err))
			return
		}
		if idClaims.Nonce != nonce {
			s.renderError(w, r, errors.Wrapf(errors.ErrInvalidToken, "invalid nonce"))
			return
		}

		user, err := s.deps.Users.GetByUsername(r.Context(), idClaims.PreferredUsername)
		if errors.Is(err, errors.ErrUserNotFound) {
			obs.WithTrace(r.Context()).Warn().Str("subject", idToken.Subject).Str("username", idClaims.PreferredUsername).Msg("upstream login for unknown user")
			s.renderError(w, r, errors.Wrapf(errors.ErrForbidden, "no local account for %q", idClaims.PreferredUsername))
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
		http.Redirect(w, r, s.safeNext(r, next), http.StatusSeeOther)
	}
}
