package interaction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPProvider talks to an Ory Hydra compatible admin API.
type HTTPProvider struct {
	adminURL string
	client   *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

func NewHTTPProvider(adminURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		adminURL: strings.TrimSuffix(adminURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (p *HTTPProvider) ConsentRequest(ctx context.Context, challenge string) (*ConsentRequest, error) {
	var out ConsentRequest
	if err := p.do(ctx, http.MethodGet, "consent", "", challenge, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) AcceptConsent(ctx context.Context, challenge string, body AcceptConsent) (string, error) {
	return p.complete(ctx, "consent", "accept", challenge, body)
}

func (p *HTTPProvider) RejectConsent(ctx context.Context, challenge string, body Rejection) (string, error) {
	return p.complete(ctx, "consent", "reject", challenge, body)
}

func (p *HTTPProvider) LoginRequest(ctx context.Context, challenge string) (*LoginRequest, error) {
	var out LoginRequest
	if err := p.do(ctx, http.MethodGet, "login", "", challenge, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) AcceptLogin(ctx context.Context, challenge string, body AcceptLogin) (string, error) {
	return p.complete(ctx, "login", "accept", challenge, body)
}

type redirect struct {
	RedirectTo string `json:"redirect_to"`
}

func (p *HTTPProvider) complete(ctx context.Context, kind, action, challenge string, body any) (string, error) {
	var out redirect
	if err := p.do(ctx, http.MethodPut, kind, action, challenge, body, &out); err != nil {
		return "", err
	}
	if out.RedirectTo == "" {
		return "", errors.Wrapf(errors.ErrProvider, "%s %s: empty redirect_to", kind, action)
	}
	return out.RedirectTo, nil
}

// do calls /admin/oauth2/auth/requests/{kind}[/{action}]?{kind}_challenge=...
func (p *HTTPProvider) do(ctx context.Context, method, kind, action, challenge string, in, out any) error {
	if challenge == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "missing %s challenge", kind)
	}
	path := p.adminURL + "/admin/oauth2/auth/requests/" + kind
	if action != "" {
		path += "/" + action
	}
	path += "?" + url.Values{kind + "_challenge": {challenge}}.Encode()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "[interaction] encode %s %s", kind, action)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return errors.Wrapf(err, "[interaction] build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrProvider, "%s %s: %v", method, kind, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return errors.Wrapf(errors.ErrInvalidRequest, "%s challenge is unknown or already handled", kind)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Wrapf(errors.ErrProvider, "%s %s: status %d: %s", method, kind, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(errors.ErrProvider, "decode %s response: %v", kind, err)
	}
	return nil
}

func (p *HTTPProvider) String() string {
	return fmt.Sprintf("HTTPProvider(%s)", p.adminURL)
}
