package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned when the product listing could not be retrieved.
type FetchError struct {
	Shop       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog fetch for %s failed with HTTP %d: %v", e.Shop, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog fetch for %s failed: %v", e.Shop, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the fetch later may succeed.
func (e *FetchError) Temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func IsTemporary(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Temporary()
	}
	return false
}
