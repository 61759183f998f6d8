package config

import "github.com/spf13/viper"

const (
	logLevelKey        = "log.level"
	logPrettyKey       = "log.pretty"
	otelEnableKey      = "otel.enable"
	otelEndpointKey    = "otel.endpoint"
	otelServiceNameKey = "otel.service_name"
	otelSampleRatioKey = "otel.sample_ratio"
)

type ObsConfig interface {
	GetLogLevel() string
	GetLogPretty() bool
	GetOTelEnable() bool
	GetOTelEndpoint() string
	GetOTelServiceName() string
	GetOTelSampleRatio() float64
}

type Observability struct {
	v *viper.Viper
}

var _ ObsConfig = Observability{}

func (o Observability) GetLogLevel() string {
	return o.v.GetString(logLevelKey)
}

// GetLogPretty defaults to console output in the DEV environment
func (o Observability) GetLogPretty() bool {
	if o.v.IsSet(logPrettyKey) {
		return o.v.GetBool(logPrettyKey)
	}
	return EnvVars(o).GetEnv() == "DEV"
}

func (o Observability) GetOTelEnable() bool {
	return o.v.GetBool(otelEnableKey)
}

func (o Observability) GetOTelEndpoint() string {
	return o.v.GetString(otelEndpointKey)
}

func (o Observability) GetOTelServiceName() string {
	return o.v.GetString(otelServiceNameKey)
}

func (o Observability) GetOTelSampleRatio() float64 {
	return o.v.GetFloat64(otelSampleRatioKey)
}
