package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/shop-feed/app/feed"
	"github.com/lysyi3m/shop-feed/app/shop"
)

// SyncShopConfigTask reloads a shop's configuration file and drops its
// current snapshot. onSynced runs with the fresh config on success.
type SyncShopConfigTask struct {
	Task
	configCache *shop.ConfigCache
	store       *feed.Store
	onSynced    func(*shop.Config)
}

func NewSyncShopConfigTask(shopName string, configCache *shop.ConfigCache, store *feed.Store, onSynced func(*shop.Config)) *SyncShopConfigTask {
	return &SyncShopConfigTask{
		Task:        NewTask(TaskTypeSyncShopConfig, shopName),
		configCache: configCache,
		store:       store,
		onSynced:    onSynced,
	}
}

func (t *SyncShopConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	shopConfig, err := t.configCache.LoadConfig(t.ShopName)
	if err != nil {
		slog.Error("Task failed", "type", "SyncShopConfig", "shop", t.ShopName, "error", err)
		return fmt.Errorf("failed to reload shop config: %w", err)
	}

	t.store.Delete(t.ShopName)

	slog.Info("Task completed",
		"type", "SyncShopConfig",
		"shop", t.ShopName,
		"enabled", shopConfig.Settings.Enabled,
		"duration", t.GetDuration())

	if t.onSynced != nil {
		t.onSynced(shopConfig)
	}

	return nil
}
