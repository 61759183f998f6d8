package consent

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-auth-hub/forwardauth"
	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/interaction"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/internal/utils"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/token"
)

const accessDenied = "Access denied"

type TokenCodec interface {
	Encode(claims token.SubrequestClaims, issuer, audience string, ttl time.Duration) (string, error)
	Decode(raw, issuer, audience string) (*token.SubrequestToken, error)
}

type HostChecker interface {
	CheckURL(ctx context.Context, targetURL string) (string, error)
}

type GrantRecorder interface {
	Grant(ctx context.Context, sessionID, host string) error
	Revoke(ctx context.Context, sessionID, host string) error
}

// Prompt is what the consent page shows. For forward-auth Token carries the
// freshly minted token the form posts back. RedirectURL is set when the
// provider lets the prompt be skipped.
type Prompt struct {
	Kind        Kind
	Host        string
	NextURL     string
	Token       string
	Challenge   string
	ClientName  string
	Scopes      []string
	RedirectURL string
}

// Outcome of a submission: either a redirect or a message to render.
type Outcome struct {
	RedirectURL string
	Message     string
}

type Gateway struct {
	codec    TokenCodec
	allow    HostChecker
	grants   GrantRecorder
	provider interaction.Provider
	issuer   string
	ttl      time.Duration
}

type Option func(*Gateway)

// WithProvider enables the OIDC consent flow.
func WithProvider(p interaction.Provider) Option {
	return func(g *Gateway) {
		g.provider = p
	}
}

func NewGateway(codec TokenCodec, allow HostChecker, grants GrantRecorder, issuer string, ttl time.Duration, opts ...Option) *Gateway {
	g := &Gateway{
		codec:  codec,
		allow:  allow,
		grants: grants,
		issuer: issuer,
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Prompt(ctx context.Context, sd *loginsession.SessionData, req Request) (*Prompt, error) {
	switch r := req.(type) {
	case ForwardAuthRequest:
		return g.promptForwardAuth(ctx, sd, r)
	case OIDCRequest:
		return g.promptOIDC(ctx, sd, r)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown consent request %T", req)
	}
}

func (g *Gateway) promptForwardAuth(ctx context.Context, sd *loginsession.SessionData, r ForwardAuthRequest) (*Prompt, error) {
	host, err := g.allow.CheckURL(ctx, r.NextURL)
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Prompt]")
	}
	tok, err := g.codec.Encode(token.SubrequestClaims{
		NextURL:      r.NextURL,
		LoginSession: sd.Session.ID,
	}, g.issuer, g.issuer, g.ttl)
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Prompt] mint token")
	}
	return &Prompt{Kind: KindForwardAuth, Host: host, NextURL: r.NextURL, Token: tok}, nil
}

func (g *Gateway) promptOIDC(ctx context.Context, sd *loginsession.SessionData, r OIDCRequest) (*Prompt, error) {
	if g.provider == nil {
		return nil, errors.Wrapf(errors.ErrUnsupported, "oidc consent is not configured")
	}
	cr, err := g.provider.ConsentRequest(ctx, r.Challenge)
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Prompt]")
	}
	if cr.Subject != sd.User.ID {
		return nil, errors.Wrapf(errors.ErrWrongUser, "consent for %s, logged in as %s", cr.Subject, sd.User.ID)
	}
	if cr.Skip {
		to, err := g.provider.AcceptConsent(ctx, r.Challenge, acceptAll(cr))
		if err != nil {
			return nil, errors.Wrapf(err, "[consent Prompt] skip")
		}
		return &Prompt{Kind: KindOIDC, Challenge: r.Challenge, RedirectURL: to}, nil
	}
	client := utils.Value(cr.Client)
	name := client.ClientName
	if name == "" {
		name = client.ClientID
	}
	return &Prompt{
		Kind:       KindOIDC,
		Challenge:  r.Challenge,
		ClientName: name,
		Scopes:     DisplayScopes(cr.RequestedScope),
	}, nil
}

func (g *Gateway) Submit(ctx context.Context, sd *loginsession.SessionData, sub Submission) (*Outcome, error) {
	var (
		out *Outcome
		err error
	)
	switch s := sub.(type) {
	case ForwardAuthSubmission:
		out, err = g.submitForwardAuth(ctx, sd, s)
	case OIDCSubmission:
		out, err = g.submitOIDC(ctx, sd, s)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown consent submission %T", sub)
	}
	if err != nil {
		return nil, err
	}
	obs.ConsentDecisions.WithLabelValues(string(sub.Kind()), string(sub.Action())).Inc()
	return out, nil
}

func (g *Gateway) submitForwardAuth(ctx context.Context, sd *loginsession.SessionData, s ForwardAuthSubmission) (*Outcome, error) {
	t, err := g.codec.Decode(s.Token, g.issuer, g.issuer)
	if err != nil {
		// a bad token here is a bad form, not an unauthenticated caller
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	if t.LoginSession != sd.Session.ID {
		return nil, errors.Wrapf(errors.ErrSessionMismatch, "token for session %s, submitted by %s", t.LoginSession, sd.Session.ID)
	}

	logger := obs.WithTrace(ctx).With().Str("session_id", sd.Session.ID).Str("next_url", t.NextURL).Logger()

	if s.Decision == ActionDeny {
		host, err := g.hostOf(t.NextURL)
		if err != nil {
			return nil, err
		}
		if err := g.grants.Revoke(ctx, sd.Session.ID, host); err != nil {
			return nil, err
		}
		logger.Info().Msg("subrequest auth denied")
		return &Outcome{Message: accessDenied}, nil
	}

	host, err := g.allow.CheckURL(ctx, t.NextURL)
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Submit]")
	}
	if err := g.grants.Grant(ctx, sd.Session.ID, host); err != nil {
		return nil, err
	}
	next, err := url.Parse(t.NextURL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "next url: %v", err)
	}
	q := next.Query()
	q.Set(forwardauth.TokenQueryParam, s.Token)
	next.RawQuery = q.Encode()

	logger.Info().Str("host", host).Msg("subrequest auth granted")
	return &Outcome{RedirectURL: next.String()}, nil
}

func (g *Gateway) submitOIDC(ctx context.Context, sd *loginsession.SessionData, s OIDCSubmission) (*Outcome, error) {
	if g.provider == nil {
		return nil, errors.Wrapf(errors.ErrUnsupported, "oidc consent is not configured")
	}
	cr, err := g.provider.ConsentRequest(ctx, s.Challenge)
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Submit]")
	}
	if cr.Subject != sd.User.ID {
		return nil, errors.Wrapf(errors.ErrWrongUser, "consent for %s, logged in as %s", cr.Subject, sd.User.ID)
	}

	var to string
	if s.Decision == ActionDeny {
		to, err = g.provider.RejectConsent(ctx, s.Challenge, interaction.Rejection{
			Error:            "access_denied",
			ErrorDescription: "The resource owner denied the request",
		})
	} else {
		to, err = g.provider.AcceptConsent(ctx, s.Challenge, acceptAll(cr))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[consent Submit] %s", s.Decision)
	}
	return &Outcome{RedirectURL: to}, nil
}

func (g *Gateway) hostOf(nextURL string) (string, error) {
	host, err := hosts.URLToHost(nextURL)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "next url: %v", err)
	}
	return host, nil
}

func acceptAll(cr *interaction.ConsentRequest) interaction.AcceptConsent {
	return interaction.AcceptConsent{
		GrantScope:               cr.RequestedScope,
		GrantAccessTokenAudience: cr.RequestedAccessTokenAudience,
		Remember:                 true,
		RememberFor:              int64(interaction.RememberFor.Seconds()),
	}
}

// DisplayScopes drops the scopes every client asks for, leaving the ones worth
// showing the user.
func DisplayScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s == oidc.ScopeOpenID || s == oidc.ScopeOfflineAccess {
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
