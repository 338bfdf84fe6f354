package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/shop-feed/app/database"
	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/metrics"
	"github.com/lysyi3m/shop-feed/app/shop"
	"github.com/lysyi3m/shop-feed/app/signature"
	"github.com/lysyi3m/shop-feed/app/tasks"
)

func NewHandler(configCache *shop.ConfigCache, store *feed.Store, assetRepo database.AssetRepository,
	scheduler tasks.TaskSchedulerInterface, metrics *metrics.Metrics, proxyPath, version string) *Handler {
	return &Handler{
		configCache: configCache,
		store:       store,
		assetRepo:   assetRepo,
		scheduler:   scheduler,
		metrics:     metrics,
		proxyPath:   proxyPath,
		version:     version,
	}
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	h.serveSnapshot(c, c.Param("name"), "application/xml; charset=utf-8", func(s feed.Snapshot) string {
		return s.RSS
	})
}

func (h *Handler) GetFeedCSV(c *gin.Context) {
	h.serveSnapshot(c, c.Param("name"), "text/csv; charset=utf-8", func(s feed.Snapshot) string {
		return s.CSV
	})
}

// GetProxyFeed serves the XML feed to the storefront app proxy. The shop is
// identified by its "shop" query parameter and the request must be signed
// with that shop's shared secret.
func (h *Handler) GetProxyFeed(c *gin.Context) {
	query := c.Request.URL.Query()

	domain := query.Get("shop")
	if domain == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	shopConfig, ok := h.configCache.FindByDomain(domain)
	if !ok {
		slog.Warn("App proxy request for unknown shop", "shop", domain)
		c.Status(http.StatusNotFound)
		return
	}

	if !signature.Verify(query, shopConfig.SharedSecret) {
		slog.Warn("App proxy signature mismatch", "shop", shopConfig.Name, "client_ip", c.ClientIP())
		c.Status(http.StatusUnauthorized)
		return
	}

	h.serveSnapshot(c, shopConfig.Name, "application/xml; charset=utf-8", func(s feed.Snapshot) string {
		return s.RSS
	})
}

func (h *Handler) serveSnapshot(c *gin.Context, name, contentType string, body func(feed.Snapshot) string) {
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Shop configuration not found", "shop", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	snapshot, ok := h.store.Get(name)
	if !ok {
		slog.Debug("Feed not built yet", "shop", name)
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(snapshot.Items))
	c.Header("X-Feed-Name", name)
	c.Header("X-Last-Updated", snapshot.BuiltAt.Format(time.RFC3339))

	if snapshot.Empty {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Type", contentType)
	c.String(http.StatusOK, body(snapshot))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":             time.Now().In(time.Local).Format(time.RFC3339),
		"loaded_configurations": h.configCache.GetConfigCount(),
		"built_feeds":           h.store.Count(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetMetrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) APIListShops(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	shops := make([]map[string]interface{}, 0, len(configs))

	for _, shopConfig := range configs {
		shopInfo := map[string]interface{}{
			"name":             shopConfig.Name,
			"domain":           shopConfig.Domain,
			"currency":         shopConfig.Currency,
			"enabled":          shopConfig.Settings.Enabled,
			"optimize":         shopConfig.Settings.Optimize,
			"refresh_interval": shopConfig.Settings.RefreshEvery().String(),
		}

		if snapshot, ok := h.store.Get(shopConfig.Name); ok {
			shopInfo["item_count"] = snapshot.Items
			shopInfo["built_at"] = snapshot.BuiltAt
			shopInfo["next_build_at"] = snapshot.NextBuildAt
		}

		shops = append(shops, shopInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"shops": shops,
		"total": len(shops),
	})
}

func (h *Handler) APIGetShopDetails(c *gin.Context) {
	name := c.Param("name")

	shopConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Shop configuration not found", "shop", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop configuration not found"})
		return
	}

	details := map[string]interface{}{
		"name":                 name,
		"domain":               shopConfig.Domain,
		"currency":             shopConfig.Currency,
		"enabled":              shopConfig.Settings.Enabled,
		"optimize":             shopConfig.Settings.Optimize,
		"require_product_type": shopConfig.Settings.ProductTypeRequired(),
		"refresh_interval":     shopConfig.Settings.RefreshEvery().String(),
		"timeout":              shopConfig.Settings.FetchTimeout().String(),
		"upload_timeout":       shopConfig.Settings.UploadDeadline().String(),
		"concurrency":          shopConfig.Settings.Concurrency,
		"failure_policy":       shopConfig.Settings.FailurePolicy,
		"image_host":           shopConfig.Cloudinary.Complete(),
	}

	if snapshot, ok := h.store.Get(name); ok {
		details["feed"] = map[string]interface{}{
			"items":         snapshot.Items,
			"failures":      snapshot.Failures,
			"saved_images":  snapshot.SavedImages,
			"empty":         snapshot.Empty,
			"built_at":      snapshot.BuiltAt,
			"next_build_at": snapshot.NextBuildAt,
		}
	}

	if count, err := h.assetRepo.GetAssetCount(name); err == nil {
		details["uploaded_assets"] = count
	} else {
		slog.Error("Database error", "operation", "get_asset_count", "shop", name, "error", err)
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIRebuildShop(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Shop configuration not found", "shop", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop configuration not found"})
		return
	}

	if err := h.scheduler.Rebuild(name); err != nil {
		slog.Error("Error enqueueing rebuild", "shop", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue rebuild",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Configuration reload and feed rebuild enqueued",
		"shop":    name,
	})
}
