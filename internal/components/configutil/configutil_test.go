package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	PortalURL string `json:"portal_url"`
	Headless  bool   `json:"headless"`
	Timeout   int    `json:"timeout"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "attendance.json5")
	defaults := testConfig{PortalURL: "https://example.com", Timeout: 15}

	cfg, err := ReadConfig(name, defaults)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, defaults, cfg)

	err = os.WriteFile(name, []byte(`{
		// comments are allowed
		timeout: 30,
	}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{PortalURL: "https://example.com", Timeout: 30}, cfg)

	err = os.WriteFile(filepath.Join(dir, "attendance.local.json5"), []byte(`{headless: true, portal_url: "https://local.test"}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{PortalURL: "https://local.test", Headless: true, Timeout: 30}, cfg)
}

func TestReadConfigZeroValuesOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "attendance.json5")
	defaults := testConfig{PortalURL: "https://example.com", Timeout: 15}

	require.NoError(t, os.WriteFile(name, []byte(`{headless: true, timeout: 0}`), 0600))
	cfg, err := ReadConfig(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{PortalURL: "https://example.com", Headless: true, Timeout: 0}, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance.local.json5"), []byte(`{headless: false, portal_url: ""}`), 0600))
	cfg, err = ReadConfig(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{}, cfg)
}

func TestReadConfigMalformed(t *testing.T) {
	name := filepath.Join(t.TempDir(), "attendance.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{timeout: `), 0600))

	_, err := ReadConfig(name, testConfig{})
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFIGUTIL_TEST_VALUE=hello\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("CONFIGUTIL_TEST_VALUE") })

	require.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "missing.env"), path))
	require.Equal(t, "hello", os.Getenv("CONFIGUTIL_TEST_VALUE"))
}
