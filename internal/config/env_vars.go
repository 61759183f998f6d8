package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	portEnvVar = "port"
	appNameVar = "app_name"
	envVar     = "env"
	baseURLVar = "base_url"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.v.GetString(portEnvVar)
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameVar)
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.v.GetString(envVar))
}

// GetBaseURL returns the externally visible URL of the hub (e.g., "https://auth.example.com").
// It has no trailing slash and is used to derive the subrequest token issuer.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(e.v.GetString(baseURLVar), "/")
}
