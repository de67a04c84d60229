package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CEICACAKE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://ceicacake.pythonanywhere.com/api/v1", cfg.API.BaseURL)
	require.Equal(t, 15, cfg.API.TimeoutSeconds)
	require.Equal(t, 10, cfg.UI.SalesPageSize)
	require.Equal(t, 15, cfg.UI.CashflowPageSize)
	require.Equal(t, 12, cfg.UI.HistoryPageSize)
	require.Equal(t, "America/Sao_Paulo", cfg.UI.Timezone)
}

func TestSaveThenLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CEICACAKE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.API.BaseURL = "http://localhost:8000/api/v1"
	cfg.UI.CashflowPageSize = 20
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/api/v1", loaded.API.BaseURL)
	require.Equal(t, 20, loaded.UI.CashflowPageSize)
}
