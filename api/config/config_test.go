package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PINS_STORE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REACT_APP_MAPBOX", "pk.test")
	t.Setenv("MAPBOX_TOKEN", "")
	t.Setenv("PINS_API_URL", "")
	t.Setenv("CURRENT_USER", "")
	t.Setenv("MAP_ZOOM", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.Store.Kind)
	require.Equal(t, "http://localhost:9090", cfg.PinsAPI.BaseURL)
	require.Equal(t, "pk.test", cfg.Map.AccessToken)
	require.Equal(t, "Marcus", cfg.Session.CurrentUser)
	require.InDelta(t, -39.462891, cfg.Map.Initial.Longitude, 1e-9)
	require.InDelta(t, 35.746512, cfg.Map.Initial.Latitude, 1e-9)
	require.InDelta(t, 3.0, cfg.Map.Initial.Zoom, 1e-9)
	require.NotEmpty(t, cfg.Session.Secret)
}

func TestLoadConfig_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("PINS_STORE", "postgres")
	t.Setenv("DB_SOURCE", "")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_UnknownStore(t *testing.T) {
	t.Setenv("PINS_STORE", "cassandra")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PINS_STORE", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("PINS_API_URL", "http://pins.internal/")
	t.Setenv("CURRENT_USER", "Ada")
	t.Setenv("MAP_ZOOM", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StoreMongo, cfg.Store.Kind)
	require.Equal(t, "http://pins.internal", cfg.PinsAPI.BaseURL)
	require.Equal(t, "Ada", cfg.Session.CurrentUser)
	require.InDelta(t, 7.0, cfg.Map.Initial.Zoom, 1e-9)
}
