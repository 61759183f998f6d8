package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	subrequestTokenTTLKey     = "forward_auth.token_ttl"
	subrequestCookieMaxAgeKey = "forward_auth.cookie_max_age"
	subrequestLiveSessionKey  = "forward_auth.live_session_check"
)

type ForwardAuthConfig interface {
	GetSubrequestIssuer() string
	GetSubrequestTokenTTL() time.Duration
	GetSubrequestCookieMaxAge() time.Duration
	GetSubrequestLiveSessionCheck() bool
}

type ForwardAuth struct {
	v *viper.Viper
}

var _ ForwardAuthConfig = ForwardAuth{}

// GetSubrequestIssuer returns the URN used as both issuer and audience of
// subrequest tokens, e.g. "urn:https://auth.example.com:subrequest-auth".
func (f ForwardAuth) GetSubrequestIssuer() string {
	return "urn:" + EnvVars(f).GetBaseURL() + ":subrequest-auth"
}

func (f ForwardAuth) GetSubrequestTokenTTL() time.Duration {
	return f.v.GetDuration(subrequestTokenTTLKey)
}

func (f ForwardAuth) GetSubrequestCookieMaxAge() time.Duration {
	return f.v.GetDuration(subrequestCookieMaxAgeKey)
}

// GetSubrequestLiveSessionCheck makes every subrequest also require the token's
// login session to still exist.
func (f ForwardAuth) GetSubrequestLiveSessionCheck() bool {
	return f.v.GetBool(subrequestLiveSessionKey)
}
