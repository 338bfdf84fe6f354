package shop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validShopYAML = `
domain: "demostore.myshopify.com"
currency: "USD"
access_token: "weoi2048104nx0djdioDijIDoIJ"
shared_secret: "weoidcndisos"
cloudinary:
  cloud_name: "foobar-cloudname"
  api_key: "3142"
  api_secret: "supersecretkey"

settings:
  enabled: true
  optimize: true
  refresh_interval: 1800
  concurrency: 4
  failure_policy: "strict"
`

func writeShop(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "demostore", validShopYAML)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 shop config, got %d", configCache.GetConfigCount())
	}

	shopConfig, err := configCache.GetConfig("demostore")
	if err != nil {
		t.Fatal(err)
	}

	if shopConfig.Name != "demostore" {
		t.Errorf("Expected name 'demostore', got '%s'", shopConfig.Name)
	}
	if shopConfig.Currency != "USD" {
		t.Errorf("Expected currency 'USD', got '%s'", shopConfig.Currency)
	}
	if shopConfig.Cloudinary.CloudName != "foobar-cloudname" {
		t.Errorf("Expected cloud name 'foobar-cloudname', got '%s'", shopConfig.Cloudinary.CloudName)
	}
	if shopConfig.Settings.RefreshEvery() != 1800*time.Second {
		t.Errorf("Expected refresh interval 1800s, got %v", shopConfig.Settings.RefreshEvery())
	}
	if shopConfig.Settings.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", shopConfig.Settings.Concurrency)
	}
	if shopConfig.Settings.FailurePolicy != PolicyStrict {
		t.Errorf("Expected strict failure policy, got '%s'", shopConfig.Settings.FailurePolicy)
	}
}

func TestConfigCacheLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "minimal", `
domain: "minimal"
currency: "EUR"
access_token: "token"
shared_secret: "secret"
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	shopConfig, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	settings := shopConfig.Settings
	if settings.RefreshEvery() != 3600*time.Second {
		t.Errorf("Expected default refresh interval 3600s, got %v", settings.RefreshEvery())
	}
	if settings.FetchTimeout() != 60*time.Second {
		t.Errorf("Expected default timeout 60s, got %v", settings.FetchTimeout())
	}
	if settings.UploadDeadline() != 30*time.Second {
		t.Errorf("Expected default upload timeout 30s, got %v", settings.UploadDeadline())
	}
	if settings.Concurrency != 8 {
		t.Errorf("Expected default concurrency 8, got %d", settings.Concurrency)
	}
	if settings.FailurePolicy != PolicyIsolate {
		t.Errorf("Expected default failure policy 'isolate', got '%s'", settings.FailurePolicy)
	}
	if !settings.ProductTypeRequired() {
		t.Error("Product type should be required by default")
	}
	if settings.Optimize {
		t.Error("Optimize should default to false")
	}
}

func TestConfigCacheRequireProductTypeToggle(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "lenient", `
domain: "lenient"
currency: "EUR"
access_token: "token"
shared_secret: "secret"
settings:
  require_product_type: false
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	shopConfig, _ := configCache.GetConfig("lenient")
	if shopConfig.Settings.ProductTypeRequired() {
		t.Error("Product type requirement should be disabled")
	}
}

func TestConfigCacheMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"domain": `
currency: "USD"
access_token: "token"
shared_secret: "secret"
`,
		"currency": `
domain: "demostore"
access_token: "token"
shared_secret: "secret"
`,
		"access_token": `
domain: "demostore"
currency: "USD"
shared_secret: "secret"
`,
		"shared_secret": `
domain: "demostore"
currency: "USD"
access_token: "token"
`,
	}

	for field, content := range cases {
		t.Run(field, func(t *testing.T) {
			tempDir := t.TempDir()
			writeShop(t, tempDir, "broken", content)

			_, err := NewConfigCache(tempDir).LoadConfig("broken")
			if err == nil {
				t.Fatalf("Expected error for missing %s", field)
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected ConfigError, got %T: %v", err, err)
			}
			if configErr.Field != "Config."+field {
				t.Errorf("Expected field 'Config.%s', got '%s'", field, configErr.Field)
			}
		})
	}
}

func TestConfigCacheOptimizeRequiresCloudinary(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "demostore", `
domain: "demostore"
currency: "USD"
access_token: "token"
shared_secret: "secret"
cloudinary:
  cloud_name: "cloud"
settings:
  optimize: true
`)

	_, err := NewConfigCache(tempDir).LoadConfig("demostore")

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if configErr.Field != "cloudinary" {
		t.Errorf("Expected cloudinary field error, got '%s'", configErr.Field)
	}
}

func TestConfigCacheInvalidFailurePolicy(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "demostore", `
domain: "demostore"
currency: "USD"
access_token: "token"
shared_secret: "secret"
settings:
  failure_policy: "sometimes"
`)

	_, err := NewConfigCache(tempDir).LoadConfig("demostore")
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestConfigCacheEmptyAndMissingDirectory(t *testing.T) {
	configCache := NewConfigCache(t.TempDir())
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs from empty directory, got %d", configCache.GetConfigCount())
	}

	configCache = NewConfigCache(filepath.Join(t.TempDir(), "missing"))
	if err := configCache.Run(); err != nil {
		t.Errorf("Missing directory should not be an error, got %v", err)
	}
}

func TestConfigCacheEnabledConfigsAndLookup(t *testing.T) {
	tempDir := t.TempDir()
	writeShop(t, tempDir, "demostore", validShopYAML)
	writeShop(t, tempDir, "paused", `
domain: "https://paused.myshopify.com"
currency: "USD"
access_token: "token"
shared_secret: "secret"
settings:
  enabled: false
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	enabled := configCache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabled))
	}
	if _, ok := enabled["demostore"]; !ok {
		t.Error("Expected demostore to be enabled")
	}

	found, ok := configCache.FindByDomain("paused.myshopify.com")
	if !ok || found.Name != "paused" {
		t.Errorf("Expected to find 'paused' by domain, got %v", found)
	}

	found, ok = configCache.FindByDomain("demostore")
	if !ok || found.Name != "demostore" {
		t.Errorf("Expected to find 'demostore' by name, got %v", found)
	}

	if _, ok := configCache.FindByDomain("unknown.myshopify.com"); ok {
		t.Error("Expected no match for unknown shop")
	}

	if _, err := configCache.GetConfig("unknown"); err == nil {
		t.Error("Expected error for unknown shop name")
	}
}
