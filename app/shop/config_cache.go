package shop

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ConfigCache struct {
	shopsDir string
	cache    map[string]*Config
	validate *validator.Validate
	mu       sync.RWMutex
}

func NewConfigCache(shopsDir string) *ConfigCache {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &ConfigCache{
		shopsDir: shopsDir,
		cache:    make(map[string]*Config),
		validate: validate,
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.shopsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.shopsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		shopName := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(shopName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "shop", shopName, "enabled", config.Settings.Enabled, "optimize", config.Settings.Optimize)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(shopName string) (*Config, error) {
	configFile := cc.getConfigFilePath(shopName)
	shopConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	shopConfig.Name = shopName

	if err := cc.validateConfig(shopConfig); err != nil {
		return nil, err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[shopConfig.Name] = shopConfig

	return shopConfig, nil
}

func (cc *ConfigCache) GetConfig(shopName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	shopConfig, ok := cc.cache[shopName]
	if !ok {
		return nil, fmt.Errorf("shop config with name '%s' not found", shopName)
	}
	return shopConfig, nil
}

// FindByDomain returns the config whose domain matches the given shop name or
// domain in any of its spellings (name, name.myshopify.com, https://...).
func (cc *ConfigCache) FindByDomain(domain string) (*Config, bool) {
	wanted := DomainToName(domain)
	if wanted == "" {
		return nil, false
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()

	for _, shopConfig := range cc.cache {
		if DomainToName(shopConfig.Domain) == wanted {
			return shopConfig, true
		}
	}
	return nil, false
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var shopConfig Config
	if err := yaml.Unmarshal(data, &shopConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if shopConfig.Settings.RefreshInterval == 0 {
		shopConfig.Settings.RefreshInterval = 3600
	}
	if shopConfig.Settings.Timeout == 0 {
		shopConfig.Settings.Timeout = 60
	}
	if shopConfig.Settings.UploadTimeout == 0 {
		shopConfig.Settings.UploadTimeout = 30
	}
	if shopConfig.Settings.Concurrency == 0 {
		shopConfig.Settings.Concurrency = 8
	}
	if shopConfig.Settings.FailurePolicy == "" {
		shopConfig.Settings.FailurePolicy = PolicyIsolate
	}

	return &shopConfig, nil
}

func (cc *ConfigCache) validateConfig(shopConfig *Config) error {
	if shopConfig == nil {
		return &ConfigError{Err: fmt.Errorf("shopConfig is nil")}
	}

	if err := cc.validate.Struct(shopConfig); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return &ConfigError{
				Shop:  shopConfig.Name,
				Field: fieldErr.Namespace(),
				Err:   fmt.Errorf("failed '%s' rule", fieldErr.Tag()),
			}
		}
		return &ConfigError{Shop: shopConfig.Name, Err: err}
	}

	if shopConfig.Settings.Optimize && !shopConfig.Cloudinary.Complete() {
		return &ConfigError{
			Shop:  shopConfig.Name,
			Field: "cloudinary",
			Err:   fmt.Errorf("cloud_name, api_key and api_secret are required when optimize is enabled"),
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(shopName string) string {
	return filepath.Join(cc.shopsDir, shopName+".yml")
}
