// Package jobs provides scheduled background tasks for the last-mile service.
//
// Jobs are cron-based and use github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// BatchClosingJob closes the currently open batch on a schedule
// (DefaultBatchClosingSchedule unless configured). Route building follows
// from the BatchClosed event.
//
// # Usage
//
//	closer := commands.NewCloseBatchCommandHandler(batchUoWFactory)
//	jobManager := jobs.NewJobManager(logger, jobs.NewBatchClosingJob(&closer, cfg.BatchCloseSchedule, logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Having no open batch is expected and logged at debug level. Any other
// failure is logged as an error; the schedule keeps running.
package jobs
