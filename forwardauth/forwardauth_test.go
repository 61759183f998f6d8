package forwardauth_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-hub/forwardauth"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/token"
	"github.com/stretchr/testify/require"
)

const issuer = "urn:https://auth.example.org:subrequest-auth"

type testFixture struct {
	now         time.Time
	codec       *token.Codec
	coordinator *forwardauth.Coordinator
}

func setupTestFixture(t *testing.T, opts ...forwardauth.Option) *testFixture {
	t.Helper()
	f := &testFixture{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := token.NewCodec(bytes.Repeat([]byte{1}, token.KeySize), token.WithNowFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.codec = codec
	f.coordinator = forwardauth.New(codec, issuer, time.Hour, opts...)
	return f
}

func (f *testFixture) mint(t *testing.T, nextURL, session string) string {
	t.Helper()
	raw, err := f.codec.Encode(token.SubrequestClaims{NextURL: nextURL, LoginSession: session}, issuer, issuer, 2*time.Hour)
	require.NoError(t, err)
	return raw
}

func subrequest(host, uri string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/subrequest-auth", nil)
	if host != "" {
		r.Header.Set(forwardauth.HeaderOriginalHost, host)
	}
	if uri != "" {
		r.Header.Set(forwardauth.HeaderOriginalURI, uri)
	}
	return r
}

func TestCookieName(t *testing.T) {
	require.Equal(t, "jwt-urn%3Ahttps%3A%2F%2Fauth.example.org%3Asubrequest-auth", forwardauth.CookieName(issuer))
	require.NotEqual(t, forwardauth.CookieName(issuer), forwardauth.CookieName("urn:https://other.example.org:subrequest-auth"))
	_, err := http.ParseSetCookie(forwardauth.CookieName(issuer) + "=v")
	require.NoError(t, err)
}

func TestCheck_Handoff(t *testing.T) {
	f := setupTestFixture(t)
	raw := f.mint(t, "https://files.example.org/docs", "s1")

	d := f.coordinator.Check(subrequest("Files.Example.org", "/docs?"+forwardauth.TokenQueryParam+"="+url.QueryEscape(raw)))
	require.NoError(t, d.Err)
	require.Equal(t, http.StatusOK, d.Status)
	require.Equal(t, forwardauth.ResultHandoff, d.Result)
	require.Equal(t, "s1", d.Token.LoginSession)

	c := d.SetCookie
	require.NotNil(t, c)
	require.Equal(t, forwardauth.CookieName(issuer), c.Name)
	require.Equal(t, raw, c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, 3600, c.MaxAge)
}

func TestCheck_Cookie(t *testing.T) {
	f := setupTestFixture(t)
	raw := f.mint(t, "https://files.example.org/docs", "s1")

	r := subrequest("files.example.org", "/other/page")
	r.AddCookie(&http.Cookie{Name: forwardauth.CookieName(issuer), Value: raw})

	d := f.coordinator.Check(r)
	require.NoError(t, d.Err)
	require.Equal(t, http.StatusOK, d.Status)
	require.Equal(t, forwardauth.ResultCookie, d.Result)
	require.Nil(t, d.SetCookie)
}

func TestCheck_Denied(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("no token", func(t *testing.T) {
		d := f.coordinator.Check(subrequest("files.example.org", "/"))
		require.Equal(t, http.StatusUnauthorized, d.Status)
		require.Equal(t, forwardauth.ResultDenied, d.Result)
	})

	t.Run("expired cookie", func(t *testing.T) {
		raw := f.mint(t, "https://files.example.org/", "s1")
		f.now = f.now.Add(3 * time.Hour)
		defer func() { f.now = f.now.Add(-3 * time.Hour) }()

		r := subrequest("files.example.org", "/")
		r.AddCookie(&http.Cookie{Name: forwardauth.CookieName(issuer), Value: raw})
		d := f.coordinator.Check(r)
		require.Equal(t, http.StatusUnauthorized, d.Status)
		require.ErrorIs(t, d.Err, errors.ErrTokenExpired)
	})

	t.Run("garbage hand-off", func(t *testing.T) {
		d := f.coordinator.Check(subrequest("files.example.org", "/?"+forwardauth.TokenQueryParam+"=junk"))
		require.Equal(t, http.StatusUnauthorized, d.Status)
		require.ErrorIs(t, d.Err, errors.ErrInvalidToken)
	})

	t.Run("cookie from another issuer is ignored", func(t *testing.T) {
		raw := f.mint(t, "https://files.example.org/", "s1")
		r := subrequest("files.example.org", "/")
		r.AddCookie(&http.Cookie{Name: forwardauth.CookieName("urn:other"), Value: raw})
		d := f.coordinator.Check(r)
		require.Equal(t, http.StatusUnauthorized, d.Status)
	})
}

func TestCheck_HostMismatch(t *testing.T) {
	f := setupTestFixture(t)
	raw := f.mint(t, "https://files.example.org/", "s1")

	t.Run("hand-off", func(t *testing.T) {
		d := f.coordinator.Check(subrequest("wiki.example.org", "/?"+forwardauth.TokenQueryParam+"="+url.QueryEscape(raw)))
		require.Equal(t, http.StatusBadRequest, d.Status)
		require.ErrorIs(t, d.Err, errors.ErrHostMismatch)
		require.Nil(t, d.SetCookie)
	})

	t.Run("port differs", func(t *testing.T) {
		r := subrequest("files.example.org:8443", "/")
		r.AddCookie(&http.Cookie{Name: forwardauth.CookieName(issuer), Value: raw})
		d := f.coordinator.Check(r)
		require.Equal(t, http.StatusBadRequest, d.Status)
		require.ErrorIs(t, d.Err, errors.ErrHostMismatch)
	})
}

func TestCheck_MalformedHeaders(t *testing.T) {
	f := setupTestFixture(t)

	tests := map[string]*http.Request{
		"missing host": subrequest("", "/"),
		"missing uri":  subrequest("files.example.org", ""),
		"duplicate host": func() *http.Request {
			r := subrequest("files.example.org", "/")
			r.Header.Add(forwardauth.HeaderOriginalHost, "wiki.example.org")
			return r
		}(),
		"duplicate uri": func() *http.Request {
			r := subrequest("files.example.org", "/")
			r.Header.Add(forwardauth.HeaderOriginalURI, "/b")
			return r
		}(),
		"duplicate token param": subrequest("files.example.org", "/?"+forwardauth.TokenQueryParam+"=a&"+forwardauth.TokenQueryParam+"=b"),
	}
	for name, r := range tests {
		t.Run(name, func(t *testing.T) {
			d := f.coordinator.Check(r)
			require.Equal(t, http.StatusBadRequest, d.Status)
			require.Equal(t, forwardauth.ResultBadRequest, d.Result)
		})
	}
}

type fakeSessions map[string]bool

func (f fakeSessions) IsActive(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

func TestCheck_LiveSessionCheck(t *testing.T) {
	f := setupTestFixture(t, forwardauth.WithLiveSessionCheck(fakeSessions{"live": true}), forwardauth.WithCookieSecure(false))

	live := f.mint(t, "https://files.example.org/", "live")
	d := f.coordinator.Check(subrequest("files.example.org", "/?"+forwardauth.TokenQueryParam+"="+url.QueryEscape(live)))
	require.Equal(t, http.StatusOK, d.Status)
	require.False(t, d.SetCookie.Secure)

	ended := f.mint(t, "https://files.example.org/", "ended")
	d = f.coordinator.Check(subrequest("files.example.org", "/?"+forwardauth.TokenQueryParam+"="+url.QueryEscape(ended)))
	require.Equal(t, http.StatusUnauthorized, d.Status)
}
