package interaction

import (
	"context"
	"time"
)

// Client identifies the OAuth2 client behind an interaction.
type Client struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name,omitempty"`
}

// ConsentRequest is the provider's description of a pending consent challenge.
type ConsentRequest struct {
	Challenge                    string   `json:"challenge"`
	Subject                      string   `json:"subject"`
	Skip                         bool     `json:"skip"`
	RequestedScope               []string `json:"requested_scope"`
	RequestedAccessTokenAudience []string `json:"requested_access_token_audience"`
	Client                       *Client  `json:"client,omitempty"`
}

type LoginRequest struct {
	Challenge      string   `json:"challenge"`
	Subject        string   `json:"subject"`
	Skip           bool     `json:"skip"`
	RequestedScope []string `json:"requested_scope"`
	Client         *Client  `json:"client,omitempty"`
}

type AcceptConsent struct {
	GrantScope               []string `json:"grant_scope"`
	GrantAccessTokenAudience []string `json:"grant_access_token_audience,omitempty"`
	Remember                 bool     `json:"remember"`
	RememberFor              int64    `json:"remember_for"`
}

type AcceptLogin struct {
	Subject     string `json:"subject"`
	Remember    bool   `json:"remember"`
	RememberFor int64  `json:"remember_for"`
}

type Rejection struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Provider is the external OIDC provider that delegates login and consent
// interactions to the hub. Each completion returns the URL the browser must
// be sent back to.
type Provider interface {
	ConsentRequest(ctx context.Context, challenge string) (*ConsentRequest, error)
	AcceptConsent(ctx context.Context, challenge string, body AcceptConsent) (string, error)
	RejectConsent(ctx context.Context, challenge string, body Rejection) (string, error)
	LoginRequest(ctx context.Context, challenge string) (*LoginRequest, error)
	AcceptLogin(ctx context.Context, challenge string, body AcceptLogin) (string, error)
}

// RememberFor is how long the provider may skip consent for a client the
// user already accepted.
const RememberFor = 30 * 24 * time.Hour
