package assets

import "fmt"

// UploadError reports a failed upload of a single image to the asset host.
type UploadError struct {
	PublicID  string
	SourceURL string
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload image %s as %s: %v", e.SourceURL, e.PublicID, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
