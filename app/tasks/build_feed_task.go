package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/shop-feed/app/assets"
	"github.com/lysyi3m/shop-feed/app/catalog"
	"github.com/lysyi3m/shop-feed/app/database"
	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/metrics"
	"github.com/lysyi3m/shop-feed/app/shop"
)

// BuildDeps are the collaborators shared by every feed build.
type BuildDeps struct {
	Source    catalog.Source
	Assets    database.AssetRepository
	Store     *feed.Store
	Generator *feed.Generator
	Tabular   *feed.TabularWriter
	Metrics   *metrics.Metrics
	// NewHost returns the image host for a shop, or nil when the shop has
	// none configured.
	NewHost func(shop.CloudinaryConfig) assets.Host
	// ProxyPath is where the storefront app proxy serves the feed.
	ProxyPath string
}

// CloudinaryHosts builds one Cloudinary client per shop from its credentials.
func CloudinaryHosts(httpClient *http.Client) func(shop.CloudinaryConfig) assets.Host {
	return func(c shop.CloudinaryConfig) assets.Host {
		if !c.Complete() {
			return nil
		}
		host, err := assets.NewCloudinary(assets.CloudinaryCredentials{
			CloudName: c.CloudName,
			APIKey:    c.APIKey,
			APISecret: c.APISecret,
		}, httpClient)
		if err != nil {
			slog.Error("Failed to configure image host", "cloud_name", c.CloudName, "error", err)
			return nil
		}
		return host
	}
}

type BuildFeedTask struct {
	Task
	ShopConfig *shop.Config
	deps       *BuildDeps
}

func NewBuildFeedTask(shopName string, shopConfig *shop.Config, deps *BuildDeps) *BuildFeedTask {
	return &BuildFeedTask{
		Task:       NewTask(TaskTypeBuildFeed, shopName),
		ShopConfig: shopConfig,
		deps:       deps,
	}
}

func (t *BuildFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	settings := t.ShopConfig.Settings
	if !settings.Enabled {
		slog.Debug("Shop disabled, skipping", "shop", t.ShopName)
		return nil
	}

	known, err := t.deps.Assets.GetKnownAssets(t.ShopName)
	if err != nil {
		return fmt.Errorf("failed to load known assets: %w", err)
	}

	products, err := t.fetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	var host assets.Host
	if t.deps.NewHost != nil {
		host = t.deps.NewHost(t.ShopConfig.Cloudinary)
	}

	requireType := settings.ProductTypeRequired()
	normalizer := feed.NewNormalizer(
		feed.NewFilterer(requireType),
		feed.NewMapper(t.ShopConfig.Domain, t.ShopConfig.Currency, !requireType),
		assets.NewGate(host, assets.NewKnownSet(known), settings.Optimize),
		feed.Options{
			Concurrency:   settings.Concurrency,
			UploadTimeout: settings.UploadDeadline(),
			Policy:        failurePolicy(settings.FailurePolicy),
		},
	)

	result, err := normalizer.Run(ctx, products)
	if result != nil {
		t.saveImages(result.SavedImages)
	}
	if err != nil {
		return err
	}

	rss, err := t.deps.Generator.Run(feed.Shop{Name: t.ShopConfig.Domain, FeedURL: t.feedURL()}, result)
	if err != nil && !errors.Is(err, feed.ErrEmpty) {
		return fmt.Errorf("failed to generate feed: %w", err)
	}

	csv, err := t.deps.Tabular.Run(result)
	if err != nil && !errors.Is(err, feed.ErrEmpty) {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	now := time.Now().UTC()
	t.deps.Store.Put(t.ShopName, feed.Snapshot{
		RSS:         rss,
		CSV:         csv,
		Items:       len(result.Records),
		Failures:    len(result.Failures),
		SavedImages: len(result.SavedImages),
		Empty:       len(result.Records) == 0,
		BuiltAt:     now,
		NextBuildAt: now.Add(settings.RefreshEvery()),
	})

	t.deps.Metrics.ObserveBuild(metrics.Build{
		Shop:     t.ShopName,
		Fetched:  len(products),
		Emitted:  len(result.Records),
		Uploaded: len(result.SavedImages),
		Failures: len(result.Failures),
		Duration: t.GetDuration(),
	})

	if len(result.Records) == 0 {
		slog.Info("Feed is empty, nothing to emit", "shop", t.ShopName, "products", len(products))
	}

	slog.Info("Task completed",
		"type", "BuildFeed",
		"shop", t.ShopName,
		"duration", t.GetDuration(),
		"products", len(products),
		"records", len(result.Records),
		"failures", len(result.Failures),
		"uploaded", len(result.SavedImages))

	return nil
}

func (t *BuildFeedTask) fetchProducts(ctx context.Context) ([]catalog.Product, error) {
	if timeout := t.ShopConfig.Settings.FetchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	creds := catalog.Credentials{Shop: t.ShopConfig.Domain, AccessToken: t.ShopConfig.AccessToken}
	return t.deps.Source.List(ctx, creds, catalog.DefaultFields)
}

// saveImages records uploads so later builds reuse them. A failed save only
// costs a re-upload under the same public ID, so it does not fail the build.
func (t *BuildFeedTask) saveImages(publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}
	if err := t.deps.Assets.SaveAssets(t.ShopName, publicIDs); err != nil {
		slog.Error("Failed to save uploaded assets", "shop", t.ShopName, "count", len(publicIDs), "error", err)
	}
}

func (t *BuildFeedTask) feedURL() string {
	if t.deps.ProxyPath == "" {
		return ""
	}
	return "https://" + shop.NameToDomain(shop.DomainToName(t.ShopConfig.Domain)) + t.deps.ProxyPath
}

func failurePolicy(p shop.FailurePolicy) feed.FailurePolicy {
	if p == shop.PolicyStrict {
		return feed.PolicyStrict
	}
	return feed.PolicyIsolate
}
