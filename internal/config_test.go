package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/mdxoutline/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Markup.Extension != "mdx" || cfg.Cache.Dir != ".outline/mdx-cache" {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Markup, cfg.Cache)
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled || cfg.AuthEnabled() {
		t.Errorf("mode = %q", cfg.Mode)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestMarkupConfig_StripsDot(t *testing.T) {
	cfg := MarkupConfig{Extension: ".mdx", ContentType: "markdown"}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Extension != "mdx" {
		t.Errorf("extension = %q", cfg.Extension)
	}

	bad := MarkupConfig{Extension: "a/b", ContentType: "markdown"}
	if err := bad.Validate(); err == nil {
		t.Error("extension with separator should fail")
	}
}

func TestCacheConfig_MustStayInVault(t *testing.T) {
	for _, dir := range []string{"/abs/cache", "../outside", ".", ""} {
		cfg := CacheConfig{Dir: dir}
		if err := cfg.Validate(); err == nil {
			t.Errorf("dir %q should be rejected", dir)
		}
	}
	cfg := CacheConfig{Dir: "./.outline//cache/"}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != ".outline/cache" {
		t.Errorf("dir = %q", cfg.Dir)
	}
}

func TestFullConfig_LoadFromYAML(t *testing.T) {
	t.Setenv("OUTLINE_TOKEN", "s3cret")
	file := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `app:
  log_level: debug
  http:
    port: 9090
vault:
  path: /tmp/vault
markup:
  extension: mdx
  content_type: markdown
cache:
  dir: .cache/outline
links:
  selector: a.internal-link
  override_attr: data-href
sqlite:
  path: /tmp/outline.db
auth:
  mode: token
  token: ${OUTLINE_TOKEN}
`
	if err := os.WriteFile(file, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Address() != ":9090" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token not expanded: %q", cfg.Auth.Token)
	}
	if cfg.Cache.Dir != ".cache/outline" {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestConfig_ArtifactExtensionNeedsHiddenCache(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Markup.Extension = "md"
	cfg.Cache.Dir = "outline-cache"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must be hidden") {
		t.Fatalf("visible cache with md extension should fail, got %v", err)
	}

	cfg.Cache.Dir = ".outline/md-cache"
	if err := cfg.Validate(); err != nil {
		t.Errorf("hidden cache dir should pass: %v", err)
	}

	cfg.Markup.Extension = "mdx"
	cfg.Cache.Dir = "outline-cache"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mdx with visible cache should pass: %v", err)
	}
}
