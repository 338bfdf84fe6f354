package api

import (
	"github.com/lysyi3m/shop-feed/app/database"
	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/metrics"
	"github.com/lysyi3m/shop-feed/app/shop"
	"github.com/lysyi3m/shop-feed/app/tasks"
)

type Handler struct {
	configCache *shop.ConfigCache
	store       *feed.Store
	assetRepo   database.AssetRepository
	scheduler   tasks.TaskSchedulerInterface
	metrics     *metrics.Metrics
	proxyPath   string
	version     string
}
