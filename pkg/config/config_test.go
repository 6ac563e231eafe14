package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 7, cfg.Ledger.ExpiryWindowDays)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_ValoresDeEntorno(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "File")
	v.Set("STORE_SEED", "false")
	v.Set("HTTP_PORT", "9090")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("APP_TIMEZONE", "UTC")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreFile, cfg.Store.Driver)
	assert.False(t, cfg.Store.Seed)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "UTC", cfg.App.Location().String())
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:w", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aw@db:5432/x?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
