package config

import "github.com/spf13/viper"

const (
	upstreamIssuerKey       = "upstream.issuer"
	upstreamClientIDKey     = "upstream.client_id"
	upstreamClientSecretKey = "upstream.client_secret"
	upstreamScopesKey       = "upstream.scopes"
)

// UpstreamConfig describes an optional upstream OIDC identity provider users can sign in with.
type UpstreamConfig interface {
	GetUpstreamIssuer() string
	GetUpstreamClientID() string
	GetUpstreamClientSecret() string
	GetUpstreamScopes() []string
}

type Upstream struct {
	v *viper.Viper
}

var _ UpstreamConfig = Upstream{}

func (u Upstream) GetUpstreamIssuer() string {
	return u.v.GetString(upstreamIssuerKey)
}

func (u Upstream) GetUpstreamClientID() string {
	return u.v.GetString(upstreamClientIDKey)
}

func (u Upstream) GetUpstreamClientSecret() string {
	return u.v.GetString(upstreamClientSecretKey)
}

func (u Upstream) GetUpstreamScopes() []string {
	return u.v.GetStringSlice(upstreamScopesKey)
}
