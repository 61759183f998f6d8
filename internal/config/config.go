package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const configFileVar = "CONFIG_FILE"

type Config interface {
	EnvConfig
	SessionConfig
	ForwardAuthConfig
	SecurityConfig
	DBConfig
	UpstreamConfig
	ProviderConfig
	ObsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
}

type mainConfig struct {
	EnvVars
	Session
	ForwardAuth
	Security
	Database
	Upstream
	Provider
	Observability
}

// New loads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables take precedence ("db.url" reads DB_URL).
func New() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString(configFileVar); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("config file could not be read, using environment only")
		}
	}
	return NewFromViper(v)
}

// NewFromViper wraps an already populated viper instance. Defaults are applied
// for any key that has not been set.
func NewFromViper(v *viper.Viper) Config {
	setDefaults(v)
	return mainConfig{
		EnvVars:       EnvVars{v: v},
		Session:       Session{v: v},
		ForwardAuth:   ForwardAuth{v: v},
		Security:      Security{v: v},
		Database:      Database{v: v},
		Upstream:      Upstream{v: v},
		Provider:      Provider{v: v},
		Observability: Observability{v: v},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(portEnvVar, "8080")
	v.SetDefault(appNameVar, "Go Auth Hub")
	v.SetDefault(envVar, "DEV")
	v.SetDefault(baseURLVar, "http://localhost:8080")

	v.SetDefault(sessionMaxAgeKey, 100*24*time.Hour)
	v.SetDefault(sessionSweepIntervalKey, time.Hour)

	v.SetDefault(subrequestTokenTTLKey, 2*time.Hour)
	v.SetDefault(subrequestCookieMaxAgeKey, time.Hour)
	v.SetDefault(subrequestLiveSessionKey, false)

	v.SetDefault(cookieSecureKey, true)
	v.SetDefault(adminUsernameKey, "admin")

	v.SetDefault(dbMaxConnsKey, 10)
	v.SetDefault(dbMinConnsKey, 1)
	v.SetDefault(dbMaxConnLifetimeKey, time.Hour)
	v.SetDefault(dbMaxConnIdleTimeKey, 30*time.Minute)
	v.SetDefault(dbHealthCheckPeriodKey, time.Minute)
	v.SetDefault(dbQueryTimeoutKey, 5*time.Second)
	v.SetDefault(dbMigrateKey, true)

	v.SetDefault(upstreamScopesKey, []string{"openid", "profile", "email"})

	v.SetDefault(providerTimeoutKey, 10*time.Second)

	v.SetDefault(logLevelKey, "info")
	v.SetDefault(otelServiceNameKey, "go-auth-hub")
	v.SetDefault(otelSampleRatioKey, 1.0)
}
