package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	dbURLKey               = "db.url"
	dbMaxConnsKey          = "db.max_conns"
	dbMinConnsKey          = "db.min_conns"
	dbMaxConnLifetimeKey   = "db.max_conn_lifetime"
	dbMaxConnIdleTimeKey   = "db.max_conn_idle_time"
	dbHealthCheckPeriodKey = "db.health_check_period"
	dbQueryTimeoutKey      = "db.query_timeout"
	dbMigrateKey           = "db.migrate"
)

type DBConfig interface {
	GetDatabaseURL() string
	GetDBMaxConns() int32
	GetDBMinConns() int32
	GetDBMaxConnLifetime() time.Duration
	GetDBMaxConnIdleTime() time.Duration
	GetDBHealthCheckPeriod() time.Duration
	GetDBQueryTimeout() time.Duration
	GetDBMigrate() bool
}

type Database struct {
	v *viper.Viper
}

var _ DBConfig = Database{}

// GetDatabaseURL is empty when the hub should run on the in-memory store.
func (d Database) GetDatabaseURL() string {
	return d.v.GetString(dbURLKey)
}

func (d Database) GetDBMaxConns() int32 {
	return d.v.GetInt32(dbMaxConnsKey)
}

func (d Database) GetDBMinConns() int32 {
	return d.v.GetInt32(dbMinConnsKey)
}

func (d Database) GetDBMaxConnLifetime() time.Duration {
	return d.v.GetDuration(dbMaxConnLifetimeKey)
}

func (d Database) GetDBMaxConnIdleTime() time.Duration {
	return d.v.GetDuration(dbMaxConnIdleTimeKey)
}

func (d Database) GetDBHealthCheckPeriod() time.Duration {
	return d.v.GetDuration(dbHealthCheckPeriodKey)
}

func (d Database) GetDBQueryTimeout() time.Duration {
	return d.v.GetDuration(dbQueryTimeoutKey)
}

func (d Database) GetDBMigrate() bool {
	return d.v.GetBool(dbMigrateKey)
}
