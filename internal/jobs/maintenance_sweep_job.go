package jobs

import (
	"context"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ActiveTruckLister lists the trucks the sweep visits.
type ActiveTruckLister interface {
	ListActiveIDs(ctx context.Context) ([]kernel.UUID, error)
}

type MaintenanceEvaluator interface {
	Handle(ctx context.Context, command commands.EvaluateMaintenanceCommand) (bool, error)
}

// MaintenanceSweepJob re-evaluates the maintenance policy for every active
// truck. Close already evaluates it; the sweep catches trucks whose forms
// changed while they were idle.
type MaintenanceSweepJob struct {
	trucks    ActiveTruckLister
	evaluator MaintenanceEvaluator
	schedule  string
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewMaintenanceSweepJob(
	trucks ActiveTruckLister,
	evaluator MaintenanceEvaluator,
	schedule string,
	logger *zap.Logger,
) *MaintenanceSweepJob {
	return &MaintenanceSweepJob{
		trucks:    trucks,
		evaluator: evaluator,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With(zap.String("component", "maintenance_sweep_job")),
	}
}

func (j *MaintenanceSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("maintenance sweep job started", zap.String("schedule", j.schedule))
	return nil
}

// Run evaluates each truck in its own transaction. A failing truck is logged
// and does not stop the sweep.
func (j *MaintenanceSweepJob) Run(ctx context.Context) int {
	ids, err := j.trucks.ListActiveIDs(ctx)
	if err != nil {
		j.logger.Error("list active trucks", zap.Error(err))
		return 0
	}

	deactivated := 0
	for _, id := range ids {
		cmd, err := commands.NewEvaluateMaintenanceCommand(id)
		if err != nil {
			j.logger.Error("build maintenance command", zap.String("truck_id", id.String()), zap.Error(err))
			continue
		}
		due, err := j.evaluator.Handle(ctx, cmd)
		if err != nil {
			j.logger.Error("evaluate maintenance", zap.String("truck_id", id.String()), zap.Error(err))
			continue
		}
		if due {
			deactivated++
			j.logger.Info("truck deactivated for maintenance", zap.String("truck_id", id.String()))
		}
	}
	return deactivated
}

func (j *MaintenanceSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("maintenance sweep job stopped")
}
