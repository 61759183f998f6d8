package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.NewFromViper(viper.New())

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 100*24*time.Hour, c.GetMaxSessionAge())
	require.Equal(t, time.Hour, c.GetSessionSweepInterval())
	require.Equal(t, 2*time.Hour, c.GetSubrequestTokenTTL())
	require.Equal(t, time.Hour, c.GetSubrequestCookieMaxAge())
	require.False(t, c.GetSubrequestLiveSessionCheck())
	require.True(t, c.GetCookieSecure())
	require.True(t, c.GetLogPretty())
	require.Empty(t, c.GetDatabaseURL())
	require.Equal(t, []string{"openid", "profile", "email"}, c.GetUpstreamScopes())
}

func TestSubrequestIssuer(t *testing.T) {
	v := viper.New()
	v.Set("base_url", "https://auth.example.org/")
	c := config.NewFromViper(v)

	require.Equal(t, "https://auth.example.org", c.GetBaseURL())
	require.Equal(t, "urn:https://auth.example.org:subrequest-auth", c.GetSubrequestIssuer())
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("port", ":9090")
	v.Set("env", "prod")
	v.Set("session.max_age", "48h")
	v.Set("db.url", "postgres://hub@localhost/hub")
	v.Set("db.max_conns", 4)
	c := config.NewFromViper(v)

	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	require.False(t, c.GetLogPretty())
	require.Equal(t, 48*time.Hour, c.GetMaxSessionAge())
	require.Equal(t, "postgres://hub@localhost/hub", c.GetDatabaseURL())
	require.Equal(t, int32(4), c.GetDBMaxConns())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("FORWARD_AUTH_TOKEN_TTL", "30m")
	t.Setenv("SECURITY_COOKIE_SECURE", "false")
	c := config.New()

	require.Equal(t, 30*time.Minute, c.GetSubrequestTokenTTL())
	require.False(t, c.GetCookieSecure())
}
