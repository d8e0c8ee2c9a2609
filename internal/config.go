package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tabnav/internal/deeplink"
	"github.com/starford/tabnav/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app" toml:"app"`
	Navigation NavigationConfig  `yaml:"navigation" toml:"navigation"`
	Storage    StorageConfig     `yaml:"storage" toml:"storage"`
	Customers  CustomersConfig   `yaml:"customers" toml:"customers"`
	Inbox      InboxConfig       `yaml:"inbox" toml:"inbox"`
	Auth       AuthConfig        `yaml:"auth" toml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Navigation.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Customers.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NavigationConfig tunes the navigation core.
type NavigationConfig struct {
	// Scheme is the deep-link URL scheme.
	Scheme string `yaml:"scheme" toml:"scheme"`
	// StateThrottle bounds how often SSE clients get a state.updated hint.
	StateThrottle time.Duration `yaml:"state_throttle" toml:"state_throttle"`
}

// Validate validates the navigation configuration.
func (c *NavigationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Scheme, validation.Required, validation.Match(schemeRe)),
		validation.Field(&c.StateThrottle, validation.Min(time.Duration(0))),
	)
}

// StorageConfig selects the key-value backend for persisted stacks.
//
// Path is a directory for "fs" and a database file for "sqlite". RedisURL is
// only read by the "redis" driver.
type StorageConfig struct {
	Driver      string `yaml:"driver" toml:"driver"`
	Path        string `yaml:"path" toml:"path"`
	RedisURL    string `yaml:"redis_url" toml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix" toml:"redis_prefix"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(storage.DriverFS, storage.DriverSQLite, storage.DriverRedis, storage.DriverMemory)),
		validation.Field(&c.Path, validation.When(c.Driver == storage.DriverFS || c.Driver == storage.DriverSQLite, validation.Required)),
		validation.Field(&c.RedisURL, validation.When(c.Driver == storage.DriverRedis, validation.Required)),
	)
}

// Options converts the section into storage.Open options.
func (c *StorageConfig) Options() storage.Options {
	return storage.Options{
		Driver:      c.Driver,
		Path:        c.Path,
		RedisURL:    c.RedisURL,
		RedisPrefix: c.RedisPrefix,
	}
}

// CustomersConfig locates the customer directory used by Tab1 detail
// routes. Seed, when set, is a JSON array imported at startup.
type CustomersConfig struct {
	Path string `yaml:"path" toml:"path"`
	Seed string `yaml:"seed" toml:"seed"`
}

// Validate validates the customers configuration.
func (c *CustomersConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// InboxConfig holds the deep-link drop directory. Empty disables the inbox.
type InboxConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" toml:"mode"`
	Token string `yaml:"token" toml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Navigation: NavigationConfig{
			Scheme:        deeplink.DefaultScheme,
			StateThrottle: time.Second,
		},
		Storage: StorageConfig{
			Driver: storage.DriverSQLite,
			Path:   "./tabnav.db",
		},
		Customers: CustomersConfig{
			Path: "./customers.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
