package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lysyi3m/shop-feed/app/assets"
	"github.com/lysyi3m/shop-feed/app/catalog"
	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/metrics"
	"github.com/lysyi3m/shop-feed/app/shop"
)

type fakeSource struct {
	products []catalog.Product
	err      error
	mu       sync.Mutex
	calls    int
	creds    catalog.Credentials
}

func (f *fakeSource) List(ctx context.Context, creds catalog.Credentials, fields []string) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.creds = creds
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAssets struct {
	mu    sync.Mutex
	known map[string][]string
	err   error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{known: make(map[string][]string)}
}

func (f *fakeAssets) GetKnownAssets(shopName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.known[shopName]...), nil
}

func (f *fakeAssets) GetAssetCount(shopName string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.known[shopName]), nil
}

func (f *fakeAssets) SaveAssets(shopName string, publicIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.known[shopName] = append(f.known[shopName], publicIDs...)
	return nil
}

type fakeHost struct {
	mu      sync.Mutex
	uploads []string
	failFor map[string]bool
}

func (h *fakeHost) Upload(ctx context.Context, sourceURL, publicID string, t assets.Transform) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failFor[publicID] {
		return "", errors.New("upload rejected")
	}
	h.uploads = append(h.uploads, publicID)
	return publicID, nil
}

func (h *fakeHost) URL(publicID string) string {
	return "https://res.example.com/" + publicID
}

func product(id int64) catalog.Product {
	return catalog.Product{
		ID:          id,
		Title:       fmt.Sprintf("Product %d", id),
		BodyHTML:    "<p>Soft cotton</p>",
		ProductType: "Shirts",
		Handle:      fmt.Sprintf("product-%d", id),
		Images:      []catalog.Image{{Src: fmt.Sprintf("https://cdn.shopify.com/s/files/1/products/p%d.jpg?v=100", id)}},
		Variants:    []catalog.Variant{{Title: "Default", SKU: fmt.Sprintf("SKU-%d", id), Price: "19.99", InventoryQuantity: 3}},
	}
}

func testShopConfig() *shop.Config {
	return &shop.Config{
		Name:         "demostore",
		Domain:       "demostore.myshopify.com",
		Currency:     "USD",
		AccessToken:  "token",
		SharedSecret: "secret",
		Cloudinary:   shop.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "s3cret"},
		Settings: shop.Settings{
			Enabled:         true,
			Optimize:        true,
			RefreshInterval: 3600,
			Concurrency:     2,
			FailurePolicy:   shop.PolicyIsolate,
		},
	}
}

func testDeps(source catalog.Source, repo *fakeAssets, host *fakeHost) *BuildDeps {
	return &BuildDeps{
		Source:    source,
		Assets:    repo,
		Store:     feed.NewStore(),
		Generator: feed.NewGenerator("test"),
		Tabular:   feed.NewTabularWriter(),
		Metrics:   metrics.New(),
		NewHost: func(c shop.CloudinaryConfig) assets.Host {
			if host == nil || !c.Complete() {
				return nil
			}
			return host
		},
		ProxyPath: "/a/product_catalog",
	}
}
