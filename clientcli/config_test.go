package clientcli_test

import (
	"path/filepath"
	"testing"

	"github.com/sagarc03/eir/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&clientcli.Config{}).WithDefaults()

	assert.Equal(t, clientcli.DefaultAddress, cfg.Address)
	assert.Equal(t, clientcli.DefaultVersion, cfg.Version)
	assert.Equal(t, clientcli.DefaultShutdownPath, cfg.ShutdownPath)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{"host and port", "localhost:8080", nil},
		{"ip and port", "127.0.0.1:9000", nil},
		{"empty", "", clientcli.ErrAddressRequired},
		{"missing port", "localhost", clientcli.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&clientcli.Config{Address: tt.address}).Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMergeConfig(t *testing.T) {
	merged := clientcli.MergeConfig(
		&clientcli.Config{Address: "a:1", Version: "HTTP/1.0"},
		nil,
		&clientcli.Config{Address: "b:2"},
	)

	assert.Equal(t, "b:2", merged.Address)
	assert.Equal(t, "HTTP/1.0", merged.Version)
	assert.Empty(t, merged.ShutdownPath)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("EIR_ADDRESS", "example.com:80")
	t.Setenv("EIR_SHUTDOWN_PATH", "/off")

	cfg := clientcli.ConfigFromEnv()

	assert.Equal(t, "example.com:80", cfg.Address)
	assert.Equal(t, "/off", cfg.ShutdownPath)
}

func TestConfigFile_Profiles(t *testing.T) {
	cf := &clientcli.ConfigFile{}

	_, err := cf.GetProfile("")
	assert.ErrorIs(t, err, clientcli.ErrNoProfiles)

	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "local", Address: "localhost:8080"}))
	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "lab", Address: "10.0.0.5:80"}))
	assert.ErrorIs(t, cf.AddProfile(clientcli.Profile{Name: "lab"}), clientcli.ErrProfileExists)

	p, err := cf.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name, "first profile is the fallback default")

	require.NoError(t, cf.SetDefault("lab"))
	p, err = cf.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "lab", p.Name)

	require.NoError(t, cf.UpdateProfile(clientcli.Profile{Name: "lab", Address: "10.0.0.6:80", Default: true}))
	p, err = cf.GetProfile("lab")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.6:80", p.Address)

	_, err = cf.GetProfile("missing")
	assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)

	require.NoError(t, cf.RemoveProfile("local"))
	assert.Equal(t, []string{"lab"}, cf.ProfileNames())
	assert.ErrorIs(t, cf.RemoveProfile("local"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{
		{Name: "local", Address: "localhost:8080", Default: true},
		{Name: "old", Address: "localhost:9090", Version: "HTTP/1.0", ShutdownPath: "/off"},
	}}
	require.NoError(t, cf.Save(path))

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cf.Profiles, loaded.Profiles)

	cfg := clientcli.ConfigFromProfile(&loaded.Profiles[1])
	assert.Equal(t, "localhost:9090", cfg.Address)
	assert.Equal(t, "HTTP/1.0", cfg.Version)
	assert.Equal(t, "/off", cfg.ShutdownPath)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := clientcli.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
