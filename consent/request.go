package consent

import (
	"net/url"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

const (
	NextURLParam   = "subrequest-auth-next-url"
	ChallengeParam = "consent_challenge"
	TokenField     = "token"
	ActionField    = "action"
)

// Kind discriminates the two consent flows served by the same endpoint.
type Kind string

const (
	KindForwardAuth Kind = "forward_auth"
	KindOIDC        Kind = "oidc"
)

type Action string

const (
	ActionConsent Action = "consent"
	ActionDeny    Action = "deny"
)

// Request is a consent page request, either ForwardAuthRequest or OIDCRequest.
type Request interface {
	Kind() Kind
}

type ForwardAuthRequest struct {
	NextURL string
}

func (ForwardAuthRequest) Kind() Kind { return KindForwardAuth }

type OIDCRequest struct {
	Challenge string
}

func (OIDCRequest) Kind() Kind { return KindOIDC }

// Submission is a consent form post, either ForwardAuthSubmission or OIDCSubmission.
type Submission interface {
	Kind() Kind
	Action() Action
}

type ForwardAuthSubmission struct {
	Decision Action
	Token    string
}

func (ForwardAuthSubmission) Kind() Kind       { return KindForwardAuth }
func (s ForwardAuthSubmission) Action() Action { return s.Decision }

type OIDCSubmission struct {
	Decision  Action
	Challenge string
}

func (OIDCSubmission) Kind() Kind       { return KindOIDC }
func (s OIDCSubmission) Action() Action { return s.Decision }

// ParseGet picks the flow from the query. Exactly one of the next url or the
// consent challenge must be present.
func ParseGet(q url.Values) (Request, error) {
	next, hasNext := single(q, NextURLParam)
	challenge, hasChallenge := single(q, ChallengeParam)
	switch {
	case hasNext && hasChallenge:
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "%s and %s are mutually exclusive", NextURLParam, ChallengeParam)
	case hasNext:
		return ForwardAuthRequest{NextURL: next}, nil
	case hasChallenge:
		return OIDCRequest{Challenge: challenge}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "expected %s or %s", NextURLParam, ChallengeParam)
	}
}

// ParsePost reads a submitted consent form. A token selects the forward-auth
// flow; otherwise a consent challenge is required.
func ParsePost(form url.Values) (Submission, error) {
	action := Action(form.Get(ActionField))
	if action != ActionConsent && action != ActionDeny {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown action %q", action)
	}
	if tok, ok := single(form, TokenField); ok {
		return ForwardAuthSubmission{Decision: action, Token: tok}, nil
	}
	if challenge, ok := single(form, ChallengeParam); ok {
		return OIDCSubmission{Decision: action, Challenge: challenge}, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidRequest, "expected %s or %s", TokenField, ChallengeParam)
}

func single(v url.Values, key string) (string, bool) {
	s := v.Get(key)
	return s, s != ""
}
