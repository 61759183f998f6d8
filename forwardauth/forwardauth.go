package forwardauth

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/jrsteele09/go-auth-hub/token"
)

const (
	HeaderOriginalHost = "X-Original-Host"
	HeaderOriginalURI  = "X-Original-Uri"

	// TokenQueryParam carries the hand-off token on the redirect back to the protected host.
	TokenQueryParam = "subrequest-auth-token"
)

// CookieName derives the subrequest cookie name from the issuer, so hubs with
// different issuers protecting the same domain do not overwrite each other.
func CookieName(issuer string) string {
	return "jwt-" + url.QueryEscape(issuer)
}

type Result string

const (
	ResultHandoff    Result = "handoff"
	ResultCookie     Result = "cookie"
	ResultDenied     Result = "denied"
	ResultBadRequest Result = "bad_request"
)

// Decision is the answer to one auth subrequest.
type Decision struct {
	Status    int
	Result    Result
	SetCookie *http.Cookie
	Token     *token.SubrequestToken
	Err       error
}

type TokenDecoder interface {
	Decode(raw, issuer, audience string) (*token.SubrequestToken, error)
}

// SessionChecker is consulted only when live session checks are enabled.
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

type Coordinator struct {
	codec        TokenDecoder
	issuer       string
	cookieName   string
	cookieMaxAge time.Duration
	cookieSecure bool
	sessions     SessionChecker
}

type Option func(*Coordinator)

func WithCookieSecure(secure bool) Option {
	return func(c *Coordinator) {
		c.cookieSecure = secure
	}
}

// WithLiveSessionCheck rejects tokens whose login session has ended or expired.
// Without it a token stays usable for its whole lifetime.
func WithLiveSessionCheck(sessions SessionChecker) Option {
	return func(c *Coordinator) {
		c.sessions = sessions
	}
}

func New(codec TokenDecoder, issuer string, cookieMaxAge time.Duration, opts ...Option) *Coordinator {
	c := &Coordinator{
		codec:        codec,
		issuer:       issuer,
		cookieName:   CookieName(issuer),
		cookieMaxAge: cookieMaxAge,
		cookieSecure: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) CookieName() string {
	return c.cookieName
}

// Check decides an auth subrequest. A hand-off token in the original URI wins
// over the cookie; either must decrypt, be unexpired and be bound to the
// original host.
func (c *Coordinator) Check(r *http.Request) Decision {
	d := c.check(r)
	obs.ForwardAuthDecisions.WithLabelValues(string(d.Result)).Inc()
	return d
}

func (c *Coordinator) check(r *http.Request) Decision {
	rawHost, err := exactlyOneHeader(r.Header, HeaderOriginalHost)
	if err != nil {
		return badRequest(err)
	}
	originalURI, err := exactlyOneHeader(r.Header, HeaderOriginalURI)
	if err != nil {
		return badRequest(err)
	}
	host, err := hosts.NormalizeHost(rawHost)
	if err != nil {
		return badRequest(err)
	}
	handoff, err := maybeOneQueryParam(originalURI, TokenQueryParam)
	if err != nil {
		return badRequest(err)
	}

	if handoff != "" {
		t, d, ok := c.verify(r.Context(), handoff, host)
		if !ok {
			return d
		}
		return Decision{
			Status:    http.StatusOK,
			Result:    ResultHandoff,
			Token:     t,
			SetCookie: c.cookie(handoff),
		}
	}

	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return Decision{
			Status: http.StatusUnauthorized,
			Result: ResultDenied,
			Err:    errors.Wrapf(errors.ErrInvalidToken, "no subrequest auth token, provide it as the %s url parameter", TokenQueryParam),
		}
	}
	t, d, ok := c.verify(r.Context(), cookie.Value, host)
	if !ok {
		return d
	}
	return Decision{Status: http.StatusOK, Result: ResultCookie, Token: t}
}

func (c *Coordinator) verify(ctx context.Context, raw, host string) (*token.SubrequestToken, Decision, bool) {
	t, err := c.codec.Decode(raw, c.issuer, c.issuer)
	if err != nil {
		return nil, Decision{Status: http.StatusUnauthorized, Result: ResultDenied, Err: err}, false
	}
	tokenHost, err := hosts.URLToHost(t.NextURL)
	if err != nil {
		return nil, Decision{Status: http.StatusUnauthorized, Result: ResultDenied, Err: errors.Wrapf(errors.ErrInvalidToken, "next url: %v", err)}, false
	}
	if tokenHost != host {
		return nil, badRequest(errors.Wrapf(errors.ErrHostMismatch, "authenticating for %s, but the user granted %s", host, tokenHost)), false
	}
	if c.sessions != nil {
		active, err := c.sessions.IsActive(ctx, t.LoginSession)
		if err != nil {
			return nil, Decision{Status: http.StatusInternalServerError, Result: ResultDenied, Err: err}, false
		}
		if !active {
			return nil, Decision{Status: http.StatusUnauthorized, Result: ResultDenied, Err: errors.Wrapf(errors.ErrSessionNotFound, "%s", t.LoginSession)}, false
		}
	}
	return t, Decision{}, true
}

func (c *Coordinator) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.cookieMaxAge.Seconds()),
	}
}

func badRequest(err error) Decision {
	return Decision{Status: http.StatusBadRequest, Result: ResultBadRequest, Err: err}
}

func exactlyOneHeader(h http.Header, name string) (string, error) {
	values := h.Values(name)
	switch len(values) {
	case 1:
		return values[0], nil
	case 0:
		return "", errors.Wrapf(errors.ErrMissingHeader, "expected exactly one %s header, but none were present", name)
	default:
		return "", errors.Wrapf(errors.ErrMissingHeader, "expected exactly one %s header, but %d were present", name, len(values))
	}
}

// maybeOneQueryParam reads key from the query of a request path such as "/a?b=c".
func maybeOneQueryParam(path, key string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "parse %s: %v", HeaderOriginalURI, err)
	}
	values := u.Query()[key]
	if len(values) > 1 {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "expected at most one %s url parameter, but %d were present", key, len(values))
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}
