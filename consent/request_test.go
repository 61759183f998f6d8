package consent_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-auth-hub/consent"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestParseGet(t *testing.T) {
	req, err := consent.ParseGet(url.Values{consent.NextURLParam: {"https://files.example.org/a"}})
	require.NoError(t, err)
	require.Equal(t, consent.ForwardAuthRequest{NextURL: "https://files.example.org/a"}, req)
	require.Equal(t, consent.KindForwardAuth, req.Kind())

	req, err = consent.ParseGet(url.Values{consent.ChallengeParam: {"c1"}})
	require.NoError(t, err)
	require.Equal(t, consent.OIDCRequest{Challenge: "c1"}, req)

	_, err = consent.ParseGet(url.Values{})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = consent.ParseGet(url.Values{
		consent.NextURLParam:   {"https://files.example.org/a"},
		consent.ChallengeParam: {"c1"},
	})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestParsePost(t *testing.T) {
	sub, err := consent.ParsePost(url.Values{"action": {"consent"}, "token": {"t"}})
	require.NoError(t, err)
	require.Equal(t, consent.ForwardAuthSubmission{Decision: consent.ActionConsent, Token: "t"}, sub)

	sub, err = consent.ParsePost(url.Values{"action": {"deny"}, "consent_challenge": {"c1"}})
	require.NoError(t, err)
	require.Equal(t, consent.OIDCSubmission{Decision: consent.ActionDeny, Challenge: "c1"}, sub)
	require.Equal(t, consent.ActionDeny, sub.Action())

	_, err = consent.ParsePost(url.Values{"action": {"maybe"}, "token": {"t"}})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = consent.ParsePost(url.Values{"action": {"consent"}})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestDisplayScopes(t *testing.T) {
	require.Equal(t, []string{"profile", "email"},
		consent.DisplayScopes([]string{"openid", "profile", "offline_access", "email", "profile"}))
	require.Empty(t, consent.DisplayScopes([]string{"openid"}))
}
