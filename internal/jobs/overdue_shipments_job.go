package jobs

import (
	"context"
	"time"

	"freight/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type OverdueShipmentsReader interface {
	Handle(ctx context.Context, query queries.ListOverdueShipmentsQuery) ([]queries.OverdueShipmentView, error)
}

// OverdueShipmentsJob reports claimed shipments that missed their deadline.
type OverdueShipmentsJob struct {
	reader   OverdueShipmentsReader
	schedule string
	limit    int
	now      func() time.Time
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewOverdueShipmentsJob creates the job. schedule is a six-field cron
// expression with seconds. A limit outside [1, MaxOverdueShipments] is
// replaced by the maximum.
func NewOverdueShipmentsJob(reader OverdueShipmentsReader, schedule string, limit int, logger *zap.Logger) *OverdueShipmentsJob {
	if limit <= 0 || limit > queries.MaxOverdueShipments {
		limit = queries.MaxOverdueShipments
	}
	return &OverdueShipmentsJob{
		reader:   reader,
		schedule: schedule,
		limit:    limit,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "overdue_shipments_job")),
	}
}

// Start registers the schedule and starts the cron runner.
func (j *OverdueShipmentsJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("overdue shipments job started", zap.String("schedule", j.schedule))
	return nil
}

// Run logs one warning per overdue shipment and returns how many were found.
func (j *OverdueShipmentsJob) Run(ctx context.Context) int {
	query, err := queries.NewListOverdueShipmentsQuery(j.now(), j.limit)
	if err != nil {
		j.logger.Error("build overdue query", zap.Error(err))
		return 0
	}
	overdue, err := j.reader.Handle(ctx, query)
	if err != nil {
		j.logger.Error("list overdue shipments", zap.Error(err))
		return 0
	}

	for _, s := range overdue {
		fields := []zap.Field{
			zap.String("shipment_id", s.ShipmentID.String()),
			zap.String("carrier_id", s.CarrierID.String()),
			zap.Time("deliver_by", s.DeliverBy),
			zap.Duration("overdue_by", query.Now().Sub(s.DeliverBy)),
		}
		if s.TruckID != nil {
			fields = append(fields, zap.String("truck_id", s.TruckID.String()))
		}
		if s.StatusName != "" {
			fields = append(fields, zap.String("status", s.StatusName))
		}
		j.logger.Warn("shipment overdue", fields...)
	}
	return len(overdue)
}

func (j *OverdueShipmentsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("overdue shipments job stopped")
}
