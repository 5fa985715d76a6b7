package client

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the global config at a temp dir for the duration of t.
func useTempConfig(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	oldGetConfigDir := getConfigDirFunc
	oldGetConfigPath := getConfigPathFunc
	getConfigDirFunc = func() (string, error) { return tmpDir, nil }
	getConfigPathFunc = func() (string, error) { return configPath, nil }
	t.Cleanup(func() {
		getConfigDirFunc = oldGetConfigDir
		getConfigPathFunc = oldGetConfigPath
	})
	return configPath
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, strings.HasSuffix(dir, "storefront"))
}

func TestLoadGlobalConfig_FileNotExists(t *testing.T) {
	useTempConfig(t)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestLoadGlobalConfig_ValidFile(t *testing.T) {
	configPath := useTempConfig(t)

	data, _ := json.Marshal(GlobalConfig{APIURL: "http://shop.test", Locale: "nl"})
	require.NoError(t, os.WriteFile(configPath, data, 0600))

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, "http://shop.test", config.APIURL)
	assert.Equal(t, "nl", config.Locale)
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	configPath := useTempConfig(t)
	require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0600))

	_, err := LoadGlobalConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveGlobalConfig_FilePermissions(t *testing.T) {
	configPath := useTempConfig(t)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://localhost:8080"}))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveGlobalConfig_NilConfig(t *testing.T) {
	err := SaveGlobalConfig(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestDeleteGlobalConfig(t *testing.T) {
	configPath := useTempConfig(t)

	require.NoError(t, DeleteGlobalConfig())

	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))
	require.NoError(t, DeleteGlobalConfig())
	assert.NoFileExists(t, configPath)
}

func TestIsValidAPIURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"http://localhost:8080", true},
		{"https://shop.example.com", true},
		{"ftp://shop.example.com", false},
		{"localhost:8080", false},
		{"", false},
		{"http://", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAPIURL(tt.raw))
		})
	}
}

func TestGetAPIURLSource(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		useTempConfig(t)
		t.Setenv(envAPIURL, "http://env.test")

		source, u := GetAPIURLSource("http://flag.test")
		assert.Equal(t, SourceFlag, source)
		assert.Equal(t, "http://flag.test", u)
	})

	t.Run("env before global config", func(t *testing.T) {
		useTempConfig(t)
		require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://global.test"}))
		t.Setenv(envAPIURL, "http://env.test")

		source, u := GetAPIURLSource("")
		assert.Equal(t, SourceEnv, source)
		assert.Equal(t, "http://env.test", u)
	})

	t.Run("global config", func(t *testing.T) {
		useTempConfig(t)
		require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://global.test"}))
		t.Setenv(envAPIURL, "")

		source, u := GetAPIURLSource("")
		assert.Equal(t, SourceGlobalConfig, source)
		assert.Equal(t, "http://global.test", u)
	})

	t.Run("default", func(t *testing.T) {
		useTempConfig(t)
		t.Setenv(envAPIURL, "")

		source, u := GetAPIURLSource("")
		assert.Equal(t, SourceDefault, source)
		assert.Equal(t, defaultAPIURL, u)
	})
}

func TestRunConfigSet_MergesWithExisting(t *testing.T) {
	useTempConfig(t)
	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://old.test", Locale: "en"}))

	var out bytes.Buffer
	require.NoError(t, runConfigSet(&out, "", "nl"))
	assert.Contains(t, out.String(), "Config saved")

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://old.test", config.APIURL)
	assert.Equal(t, "nl", config.Locale)
}

func TestRunConfigSet_Rejects(t *testing.T) {
	useTempConfig(t)

	tests := []struct {
		name   string
		url    string
		locale string
		errMsg string
	}{
		{"nothing", "", "", "nothing to set"},
		{"bad url", "shop", "", "invalid API URL"},
		{"bad locale", "", "fr", "unsupported locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runConfigSet(&bytes.Buffer{}, tt.url, tt.locale)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRunConfigShow_JSON(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envAPIURL, "")

	var out bytes.Buffer
	require.NoError(t, runConfigShow(&out, "http://flag.test", "nl", true))

	var shown map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &shown))
	assert.Equal(t, "http://flag.test", shown["api_url"])
	assert.Equal(t, "flag", shown["source"])
	assert.Equal(t, "nl", shown["locale"])
}
