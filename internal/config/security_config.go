package config

import "github.com/spf13/viper"

const (
	cookieSecureKey  = "security.cookie_secure"
	adminUsernameKey = "security.admin_username"
	adminPasswordKey = "security.admin_password"
)

type SecurityConfig interface {
	GetCookieSecure() bool
	GetSystemAdminUser() string
	GetSystemAdminPassword() string
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

// GetCookieSecure controls the Secure attribute on every cookie the hub sets.
func (s Security) GetCookieSecure() bool {
	return s.v.GetBool(cookieSecureKey)
}

func (s Security) GetSystemAdminUser() string {
	return s.v.GetString(adminUsernameKey)
}

// GetSystemAdminPassword is empty unless configured, in which case a random password is generated
func (s Security) GetSystemAdminPassword() string {
	return s.v.GetString(adminPasswordKey)
}
