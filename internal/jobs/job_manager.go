package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the scheduled jobs as a unit.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager creates a manager for the given jobs. A nil job is left
// out.
func NewJobManager(maintenanceSweep *MaintenanceSweepJob, overdueShipments *OverdueShipmentsJob) *JobManager {
	jm := &JobManager{}
	if maintenanceSweep != nil {
		jm.jobs = append(jm.jobs, namedJob{name: "maintenance sweep", job: maintenanceSweep})
	}
	if overdueShipments != nil {
		jm.jobs = append(jm.jobs, namedJob{name: "overdue shipments", job: overdueShipments})
	}
	return jm
}

// StartAll starts every job. If one fails, the ones already started are
// stopped again.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the started jobs in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
