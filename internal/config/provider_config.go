package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	providerAdminURLKey = "oidc_provider.admin_url"
	providerTimeoutKey  = "oidc_provider.timeout"
)

// ProviderConfig locates the admin API of the OIDC provider that delegates
// login and consent challenges to the hub.
type ProviderConfig interface {
	GetProviderAdminURL() string
	GetProviderTimeout() time.Duration
}

type Provider struct {
	v *viper.Viper
}

var _ ProviderConfig = Provider{}

func (p Provider) GetProviderAdminURL() string {
	return p.v.GetString(providerAdminURLKey)
}

func (p Provider) GetProviderTimeout() time.Duration {
	return p.v.GetDuration(providerTimeoutKey)
}
