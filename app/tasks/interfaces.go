package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to run background feed builds and by the API
// to request an immediate rebuild.
//
//	scheduler := NewScheduler(configCache, deps)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.Rebuild("demostore")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Rebuild(shopName string) error
}
