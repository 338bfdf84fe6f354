package shop

import "time"

type FailurePolicy string

const (
	PolicyIsolate FailurePolicy = "isolate"
	PolicyStrict  FailurePolicy = "strict"
)

type Config struct {
	Name         string           // Derived from filename (without .yml extension)
	Domain       string           `yaml:"domain" validate:"required"`
	Currency     string           `yaml:"currency" validate:"required"`
	AccessToken  string           `yaml:"access_token" validate:"required"`
	SharedSecret string           `yaml:"shared_secret" validate:"required"`
	Cloudinary   CloudinaryConfig `yaml:"cloudinary"`
	Settings     Settings         `yaml:"settings"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

func (c CloudinaryConfig) Complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Settings struct {
	Enabled            bool          `yaml:"enabled"`
	Optimize           bool          `yaml:"optimize"`
	RequireProductType *bool         `yaml:"require_product_type"`
	RefreshInterval    int           `yaml:"refresh_interval" validate:"gte=0"` // seconds
	Timeout            int           `yaml:"timeout" validate:"gte=0"`          // seconds
	UploadTimeout      int           `yaml:"upload_timeout" validate:"gte=0"`   // seconds
	Concurrency        int           `yaml:"concurrency" validate:"gte=0"`
	FailurePolicy      FailurePolicy `yaml:"failure_policy" validate:"omitempty,oneof=isolate strict"`
}

// ProductTypeRequired reports whether products without a product type are
// excluded. Defaults to true when the setting is absent.
func (s Settings) ProductTypeRequired() bool {
	if s.RequireProductType == nil {
		return true
	}
	return *s.RequireProductType
}

func (s Settings) RefreshEvery() time.Duration {
	return time.Duration(s.RefreshInterval) * time.Second
}

func (s Settings) FetchTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

func (s Settings) UploadDeadline() time.Duration {
	return time.Duration(s.UploadTimeout) * time.Second
}
