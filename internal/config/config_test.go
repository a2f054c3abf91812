package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFlags(t *testing.T) {
	conf, err := load([]string{
		"-a", "0.0.0.0:9000",
		"-d", "postgres://localhost/market",
		"-s", "secret",
		"-t", "15m",
		"-max-topup", "500.50",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", conf.RunAddress)
	assert.Equal(t, "postgres://localhost/market", conf.DatabaseDSN)
	assert.Equal(t, defaultMigrationsDir, conf.MigrationsDir)
	assert.Equal(t, "secret", conf.JWTUserSecret)
	assert.Equal(t, 15*time.Minute, conf.JWTTokenTTL)
	assert.True(t, decimal.RequireFromString("500.50").Equal(conf.MaxTopUpAmount))
}

func TestEnvOverridesFlags(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "localhost:7000")
	t.Setenv("DATABASE_URI", "postgres://env/market")
	t.Setenv("JWT_USER_SECRET", "env secret")
	t.Setenv("JWT_TOKEN_TTL", "2h")
	t.Setenv("MAX_TOPUP_AMOUNT", "10")

	conf, err := load([]string{"-a", "localhost:9000", "-d", "postgres://flag/market"})
	require.NoError(t, err)

	assert.Equal(t, "localhost:7000", conf.RunAddress)
	assert.Equal(t, "postgres://env/market", conf.DatabaseDSN)
	assert.Equal(t, "env secret", conf.JWTUserSecret)
	assert.Equal(t, 2*time.Hour, conf.JWTTokenTTL)
	assert.True(t, decimal.NewFromInt(10).Equal(conf.MaxTopUpAmount))
}

func TestDefaults(t *testing.T) {
	conf, err := load([]string{"-d", "dsn", "-s", "secret"})
	require.NoError(t, err)

	assert.Equal(t, defaultRunAddress, conf.RunAddress)
	assert.Equal(t, defaultJWTTokenTTL, conf.JWTTokenTTL)
	assert.True(t, decimal.NewFromInt(defaultMaxTopUp).Equal(conf.MaxTopUpAmount))
	assert.NotContains(t, conf.String(), "secret")
	assert.NotContains(t, conf.String(), "dsn")
}

func TestRequired(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "no dsn", args: []string{"-s", "secret"}},
		{name: "no secret", args: []string{"-d", "dsn"}},
		{name: "negative top up", args: []string{"-d", "dsn", "-s", "secret", "-max-topup", "-1"}},
		{name: "unknown flag", args: []string{"-d", "dsn", "-s", "secret", "-x"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := load(c.args)
			require.Error(t, err)
		})
	}
}
