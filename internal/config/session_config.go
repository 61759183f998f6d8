package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	sessionMaxAgeKey        = "session.max_age"
	sessionSweepIntervalKey = "session.sweep_interval"
)

type SessionConfig interface {
	GetMaxSessionAge() time.Duration
	GetSessionSweepInterval() time.Duration
}

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

func (s Session) GetMaxSessionAge() time.Duration {
	return s.v.GetDuration(sessionMaxAgeKey) // 100 days by default
}

func (s Session) GetSessionSweepInterval() time.Duration {
	return s.v.GetDuration(sessionSweepIntervalKey)
}
