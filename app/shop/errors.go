package shop

import "fmt"

// ConfigError reports a missing or invalid shop setting. It is raised while
// loading, before any request is made on behalf of the shop.
type ConfigError struct {
	Shop  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for shop %s: %s: %v", e.Shop, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid configuration for shop %s: %v", e.Shop, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
