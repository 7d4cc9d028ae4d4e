package internal

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mdxoutline/internal/cache"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Markup MarkupConfig      `yaml:"markup"`
	Cache  CacheConfig       `yaml:"cache"`
	Links  LinksConfig       `yaml:"links"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Vault, &c.Markup, &c.Cache, &c.Links, &c.SQLite, &c.Auth} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return c.validateCacheVisibility()
}

// validateCacheVisibility rejects a setup where outline artifacts would be
// listed as managed documents themselves: artifacts share the managed
// extension and the cache directory is not hidden from the vault listing.
func (c *Config) validateCacheVisibility() error {
	if !strings.EqualFold(c.Markup.Extension, strings.TrimPrefix(cache.ArtifactExt, ".")) {
		return nil
	}
	for _, seg := range strings.Split(c.Cache.Dir, "/") {
		if strings.HasPrefix(seg, ".") {
			return nil
		}
	}
	return fmt.Errorf("cache: dir %q must be hidden (a segment starting with \".\") when markup.extension is %q",
		c.Cache.Dir, c.Markup.Extension)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
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

// VaultConfig holds the path to the document vault.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// MarkupConfig names the managed dialect.
type MarkupConfig struct {
	Extension   string `yaml:"extension"`
	ContentType string `yaml:"content_type"`
}

// Validate validates the markup configuration. A leading dot on the
// extension is dropped.
func (c *MarkupConfig) Validate() error {
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	return validation.ValidateStruct(c,
		validation.Field(&c.Extension, validation.Required, validation.By(noSeparator)),
		validation.Field(&c.ContentType, validation.Required),
	)
}

// CacheConfig holds the vault-relative cache directory.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	); err != nil {
		return err
	}
	clean := path.Clean(c.Dir)
	if path.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return fmt.Errorf("cache: dir %q must be inside the vault", c.Dir)
	}
	c.Dir = clean
	return nil
}

// LinksConfig controls which clicked elements count as internal links.
type LinksConfig struct {
	Selector     string `yaml:"selector"`
	OverrideAttr string `yaml:"override_attr"`
}

// Validate validates the links configuration.
func (c *LinksConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Selector, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
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

func noSeparator(v any) error {
	s, _ := v.(string)
	if strings.ContainsAny(s, "/\\") {
		return fmt.Errorf("must not contain path separators")
	}
	return nil
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
		Vault: VaultConfig{
			Path: "./vault",
		},
		Markup: MarkupConfig{
			Extension:   "mdx",
			ContentType: "markdown",
		},
		Cache: CacheConfig{
			Dir: ".outline/mdx-cache",
		},
		Links: LinksConfig{
			Selector:     "a.internal-link",
			OverrideAttr: "data-href",
		},
		SQLite: SQLiteConfig{
			Path: "./mdxoutline.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
