package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
	assert.Equal(t, "myapp", cfg.Navigation.Scheme)
	assert.Equal(t, time.Second, cfg.Navigation.StateThrottle)
}

func TestStorageConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"fs with path", StorageConfig{Driver: "fs", Path: "./state"}, false},
		{"fs without path", StorageConfig{Driver: "fs"}, true},
		{"sqlite without path", StorageConfig{Driver: "sqlite"}, true},
		{"memory", StorageConfig{Driver: "memory"}, false},
		{"redis with url", StorageConfig{Driver: "redis", RedisURL: "redis://localhost:6379/0"}, false},
		{"redis without url", StorageConfig{Driver: "redis"}, true},
		{"unknown driver", StorageConfig{Driver: "etcd", Path: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cfg.Driver, tt.cfg.Options().Driver)
		})
	}
}

func TestNavigationConfig_Scheme(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Navigation.Scheme = "my app"
	assert.Error(t, cfg.Validate())

	cfg.Navigation.Scheme = "com.example.app"
	assert.NoError(t, cfg.Validate())
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
