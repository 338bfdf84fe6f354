package assets

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryCredentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

var _ Host = (*Cloudinary)(nil)

// Cloudinary is an image host client bound to one account. Every shop gets
// its own instance.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(creds CloudinaryCredentials, httpClient *http.Client) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}

	cld.Config.URL.Secure = true
	cld.Config.URL.Analytics = false
	if httpClient != nil {
		cld.Upload.Client = *httpClient
	}

	return &Cloudinary{cld: cld}, nil
}

// WithUploadPrefix points uploads at another API host.
func (c *Cloudinary) WithUploadPrefix(prefix string) *Cloudinary {
	c.cld.Config.API.UploadPrefix = prefix
	c.cld.Upload.Config.API.UploadPrefix = prefix
	return c
}

func (c *Cloudinary) URL(publicID string) string {
	image, err := c.cld.Image(publicID)
	if err != nil {
		return ""
	}
	url, err := image.String()
	if err != nil {
		return ""
	}
	return url
}

// Upload asks the host to fetch sourceURL and store it under publicID.
// It returns the public ID the host assigned.
func (c *Cloudinary) Upload(ctx context.Context, sourceURL, publicID string, t Transform) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{
		PublicID:       publicID,
		Transformation: string(t),
	})
	if result != nil && result.Error.Message != "" {
		return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("upload returned no result")
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("response carried no public_id")
	}

	return result.PublicID, nil
}
