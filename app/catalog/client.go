package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"github.com/lysyi3m/shop-feed/app/shop"
)

const (
	DefaultAPIVersion = "2024-01"
	DefaultRetries    = 3
	pageLimit         = 250
	maxPages          = 200
	productsPath      = "products.json"
)

type Source interface {
	List(ctx context.Context, creds Credentials, fields []string) ([]Product, error)
}

var _ Source = (*Client)(nil)

// Client lists products through the Admin REST API. A shop client is built
// per call since every shop carries its own access token.
type Client struct {
	httpClient *http.Client
	apiVersion string
	retries    int
}

func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &userAgentTransport{base: httpClient.Transport, userAgent: userAgent},
			Timeout:   httpClient.Timeout,
		},
		apiVersion: DefaultAPIVersion,
		retries:    DefaultRetries,
	}
}

func (c *Client) WithRetries(retries int) *Client {
	c.retries = retries
	return c
}

// List returns every product of the shop, following cursor pagination.
func (c *Client) List(ctx context.Context, creds Credentials, fields []string) ([]Product, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}

	api, err := goshopify.NewClient(goshopify.App{}, shop.NameToDomain(shop.DomainToName(creds.Shop)), creds.AccessToken,
		goshopify.WithVersion(c.apiVersion),
		goshopify.WithRetry(c.retries),
		goshopify.WithHTTPClient(c.httpClient),
	)
	if err != nil {
		return nil, &FetchError{Shop: creds.Shop, Err: fmt.Errorf("failed to create client: %w", err)}
	}

	selector := strings.Join(fields, ",")
	options := &goshopify.ListOptions{Fields: selector, Limit: pageLimit}

	var products []Product
	for page := 0; options != nil; page++ {
		if page >= maxPages {
			return nil, &FetchError{Shop: creds.Shop, Err: fmt.Errorf("pagination exceeded %d pages", maxPages)}
		}

		var payload productsResponse
		pagination, err := api.ListWithPagination(ctx, productsPath, &payload, options)
		if err != nil {
			return nil, fetchError(creds.Shop, err)
		}
		products = append(products, payload.Products...)

		options = nil
		if pagination != nil && pagination.NextPageOptions != nil {
			options = pagination.NextPageOptions
			options.Fields = selector
		}
	}

	slog.Debug("Catalog fetched", "shop", creds.Shop, "products", len(products))

	return products, nil
}

func fetchError(shopName string, err error) *FetchError {
	var rateErr goshopify.RateLimitError
	if errors.As(err, &rateErr) {
		return &FetchError{Shop: shopName, StatusCode: http.StatusTooManyRequests, Err: err}
	}

	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		return &FetchError{Shop: shopName, StatusCode: respErr.Status, Err: err}
	}

	return &FetchError{Shop: shopName, Err: err}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.userAgent == "" {
		return base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return base.RoundTrip(req)
}
