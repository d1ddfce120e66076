package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"placementapi/config"
	"placementapi/ml"
)

func parseFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags(args))
	return loadConfig(cmd, opts)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600))

	cfg, err := parseFlags(t,
		"--config", path,
		"--port", "9100",
		"--model", "/srv/model.json",
		"--allowed-origin", "https://a.example.com",
		"--allowed-origin", "https://b.example.com",
	)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/srv/model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "scaler.json", cfg.Artifacts.ScalerPath)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := parseFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := parseFlags(t)
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadConfigRejectsWildcardOrigin(t *testing.T) {
	_, err := parseFlags(t, "--config", "../config.yaml", "--allowed-origin", "*")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed_origins")
}

func TestBuildServerMissingArtifacts(t *testing.T) {
	cfg := config.New()
	cfg.Artifacts.ModelPath = filepath.Join(t.TempDir(), "model.json")
	cfg.Artifacts.ScalerPath = "../ml/testdata/scaler.json"

	server, _, err := buildServer(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, server)

	var startupErr *ml.StartupError
	require.True(t, errors.As(err, &startupErr))
	assert.Equal(t, ml.ArtifactModel, startupErr.Artifact)
}

func TestBuildServerCorruptScaler(t *testing.T) {
	scalerPath := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(scalerPath, []byte("not json"), 0o600))
	cfg := config.New()
	cfg.Artifacts.ModelPath = "../ml/testdata/model.json"
	cfg.Artifacts.ScalerPath = scalerPath

	_, _, err := buildServer(cfg, zap.NewNop())
	var startupErr *ml.StartupError
	require.True(t, errors.As(err, &startupErr))
	assert.Equal(t, ml.ArtifactScaler, startupErr.Artifact)
}

func TestBuildServer(t *testing.T) {
	cfg := config.New()
	cfg.Artifacts.ModelPath = "../ml/testdata/model.json"
	cfg.Artifacts.ScalerPath = "../ml/testdata/scaler.json"
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	server, closeFn, err := buildServer(cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"cgpa": 8.5, "iq": 110}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prediction":1}`, w.Body.String())

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadConfigRejectsMetricsOnApiRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\n  path: /\n"), 0o600))

	_, err := parseFlags(t, "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.path")
}
