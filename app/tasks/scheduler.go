package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/shop-feed/app/catalog"
	"github.com/lysyi3m/shop-feed/app/cfg"
	"github.com/lysyi3m/shop-feed/app/shop"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	taskTimeout   = 5 * time.Minute
	maxRetryDelay = 30 * time.Second
)

type Scheduler struct {
	configCache *shop.ConfigCache
	deps        *BuildDeps
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	// building holds shops with a build queued or running, so the ticker
	// does not pile up builds for a slow shop.
	building map[string]struct{}
	mu       sync.Mutex
}

func NewScheduler(configCache *shop.ConfigCache, deps *BuildDeps) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache: configCache,
		deps:        deps,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
		building:    make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Rebuild reloads the shop's configuration and then builds its feed.
func (s *Scheduler) Rebuild(shopName string) error {
	if _, err := s.configCache.GetConfig(shopName); err != nil {
		return err
	}

	syncTask := NewSyncShopConfigTask(shopName, s.configCache, s.deps.Store, func(shopConfig *shop.Config) {
		s.enqueueBuild(shopConfig)
	})
	return s.EnqueueTask(syncTask)
}

func (s *Scheduler) enqueueTasks() {
	shopConfigs := s.configCache.GetEnabledConfigs()
	if len(shopConfigs) == 0 {
		slog.Debug("No enabled shop configurations found")
		return
	}

	slog.Debug("Processing enabled shop configurations for task scheduling", "count", len(shopConfigs))

	now := time.Now().UTC()
	for _, shopConfig := range shopConfigs {
		if !s.deps.Store.DueForBuild(shopConfig.Name, now) {
			slog.Debug("Feed not due for rebuild yet", "shop", shopConfig.Name)
			continue
		}
		s.enqueueBuild(shopConfig)
	}
}

func (s *Scheduler) enqueueBuild(shopConfig *shop.Config) {
	if !shopConfig.Settings.Enabled {
		slog.Debug("Shop disabled, skipping BuildFeedTask", "shop", shopConfig.Name)
		return
	}

	s.mu.Lock()
	if _, ok := s.building[shopConfig.Name]; ok {
		s.mu.Unlock()
		slog.Debug("Build already in progress", "shop", shopConfig.Name)
		return
	}
	s.building[shopConfig.Name] = struct{}{}
	s.mu.Unlock()

	if err := s.EnqueueTask(NewBuildFeedTask(shopConfig.Name, shopConfig, s.deps)); err != nil {
		slog.Warn("Failed to enqueue BuildFeedTask", "shop", shopConfig.Name, "error", err)
		s.finish(shopConfig.Name, TaskTypeBuildFeed)
	}
}

func (s *Scheduler) finish(shopName string, taskType TaskType) {
	if taskType != TaskTypeBuildFeed {
		return
	}
	s.mu.Lock()
	delete(s.building, shopName)
	s.mu.Unlock()
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.finish(task.GetShopName(), task.GetType())
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "shop", task.GetShopName(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() || !isRetryable(err) {
		slog.Error("Task failed permanently", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.finish(task.GetShopName(), task.GetType())
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "shop", task.GetShopName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		case <-time.After(delay):
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			s.finish(task.GetShopName(), task.GetType())
		}
	}()
}

// retryDelay doubles from one second per attempt, capped at maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// isRetryable reports whether running the task again may help. Invalid shop
// configuration and permanent catalog errors are not.
func isRetryable(err error) bool {
	var configErr *shop.ConfigError
	if errors.As(err, &configErr) {
		return false
	}

	var fetchErr *catalog.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Temporary()
	}

	return true
}
