// Package jobs provides the scheduled background tasks of the freight
// service, built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
//  1. MaintenanceSweepJob - evaluates the maintenance policy for every active truck
//  2. OverdueShipmentsJob - logs claimed shipments whose deadline passed
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweep, overdue)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Jobs log failures and keep running; a failing truck does not stop the
// sweep. A job that fails to start stops the ones already started.
package jobs
