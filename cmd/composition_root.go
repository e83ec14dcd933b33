package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/in/worker"
	"freight/internal/adapters/out/cache"
	"freight/internal/adapters/out/geocoding"
	"freight/internal/adapters/out/notify"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/queue"
	"freight/internal/config"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot wires configuration, storage and adapters into the use
// cases. Redis and the queue are optional; without them the rulebook cache
// is off and domain events are dropped after commit.
type CompositionRoot struct {
	cfg        *config.Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	cache      ports.RulebookCache
	policy     services.MaintenancePolicy

	redisClient *redis.Client
	queueClient *asynq.Client
}

// NewCompositionRoot fails only when the maintenance intervals in cfg are
// invalid. Redis and queue clients connect lazily.
func NewCompositionRoot(cfg *config.Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	policy, err := services.NewMaintenancePolicy(cfg.Maintenance.MileageInterval, cfg.Maintenance.Interval())
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{cfg: cfg, gormDB: gormDB, logger: logger, policy: policy}

	var publisher ports.EventPublisher
	if cfg.Queue.Enabled {
		root.queueClient = queue.NewClient(queueRedisOptions(cfg.Queue))
		publisher = queue.NewPublisher(root.queueClient, cfg.Queue.Name)
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher)

	if cfg.Redis.Enabled {
		root.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		root.cache = cache.NewRedisRulebookCache(root.redisClient, cfg.Redis.Prefix, cfg.Redis.RuleTTL())
	}

	return root, nil
}

// Close releases the queue and Redis clients.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.queueClient != nil {
		errs = append(errs, c.queueClient.Close())
	}
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) tenantUoWFactory() commands.TenantUoWFactory {
	return FuncTenantUoWFactory(func() commands.TenantUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ratingUoWFactory() commands.RatingUoWFactory {
	return FuncRatingUoWFactory(func() commands.RatingUoW {
		return c.uowFactory.Create()
	})
}

// ProvisionTenants upserts every tenant declared in configuration.
func (c *CompositionRoot) ProvisionTenants(ctx context.Context) error {
	handler := commands.NewProvisionTenantCommandHandler(c.tenantUoWFactory(), c.cache)
	for _, tenant := range c.cfg.Tenants {
		cmd, err := provisionTenantCommand(tenant)
		if err != nil {
			return err
		}
		if err = handler.Handle(ctx, cmd); err != nil {
			return fmt.Errorf("provision tenant %q: %w", tenant.Name, err)
		}
		c.logger.Info("tenant provisioned", zap.String("carrier_id", tenant.ID), zap.String("name", tenant.Name))
	}
	return nil
}

func (c *CompositionRoot) NewHTTPRouter(ctx context.Context) (*echo.Echo, error) {
	tenants, lifecycle, ratings := c.tenantUoWFactory(), c.lifecycleUoWFactory(), c.ratingUoWFactory()

	server := httpin.NewServer(httpin.Handlers{
		CreateCarrier:        commands.NewCreateCarrierCommandHandler(tenants),
		DefineStatus:         commands.NewDefineStatusCommandHandler(tenants),
		BindRule:             commands.NewBindRuleCommandHandler(tenants, c.cache),
		RegisterTruck:        commands.NewRegisterTruckCommandHandler(lifecycle),
		CreateShipment:       commands.NewCreateShipmentCommandHandler(lifecycle),
		ClaimShipment:        commands.NewClaimShipmentCommandHandler(lifecycle),
		ReleaseShipment:      commands.NewReleaseShipmentCommandHandler(lifecycle),
		ScheduleDelivery:     commands.NewScheduleDeliveryCommandHandler(lifecycle),
		InitiateDelivery:     commands.NewInitiateDeliveryCommandHandler(lifecycle),
		CloseDelivery:        commands.NewCloseDeliveryCommandHandler(lifecycle, c.policy),
		CancelDelivery:       commands.NewCancelDeliveryCommandHandler(lifecycle),
		UpdateShipmentStatus: commands.NewUpdateShipmentStatusCommandHandler(lifecycle),
		DeliverShipment:      commands.NewDeliverShipmentCommandHandler(lifecycle),
		FailLeg:              commands.NewFailLegCommandHandler(lifecycle),
		UpdateLegAddresses:   commands.NewUpdateLegAddressesCommandHandler(lifecycle),
		RecordForm:           commands.NewRecordFormCommandHandler(lifecycle),
		CreateRating:         commands.NewCreateRatingCommandHandler(ratings),
		UpdateRating:         commands.NewUpdateRatingCommandHandler(ratings),
		DeleteRating:         commands.NewDeleteRatingCommandHandler(ratings),

		GetCarrierRating: queries.NewGetCarrierRatingQueryHandler(c.gormDB),
		ResolveStatus:    queries.NewResolveStatusQueryHandler(c.gormDB, c.cache),
		GetDelivery:      queries.NewGetDeliveryQueryHandler(c.gormDB),
		GetShipment:      queries.NewGetShipmentQueryHandler(c.gormDB),
	})

	return httpin.NewRouter(ctx, server, c.logger)
}

func (c *CompositionRoot) NewWorkerServer() (*worker.Server, error) {
	geocoder, err := geocoding.NewNominatimGeocoder(geocoding.Options{
		BaseURL:   c.cfg.Geocoder.BaseURL,
		UserAgent: c.cfg.Geocoder.UserAgent,
		Timeout:   c.cfg.Geocoder.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	consumer := worker.NewConsumer(
		queries.NewGetLegAddressesQueryHandler(c.gormDB),
		commands.NewSetLegCoordinatesCommandHandler(c.lifecycleUoWFactory()),
		geocoder,
		notify.NewLogNotifier(c.logger),
		c.logger,
	)

	return worker.NewServer(worker.ServerOptions{
		Redis:       queueRedisOptions(c.cfg.Queue),
		Concurrency: c.cfg.Queue.Concurrency,
		Queue:       c.cfg.Queue.Name,
	}, consumer, c.logger), nil
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	sweep := jobs.NewMaintenanceSweepJob(
		ActiveTrucksFunc(func(ctx context.Context) ([]kernel.UUID, error) {
			return c.uowFactory.Create().TruckRepository().ListActiveIDs(ctx)
		}),
		commands.NewEvaluateMaintenanceCommandHandler(c.lifecycleUoWFactory(), c.policy),
		c.cfg.Jobs.MaintenanceSweepSchedule,
		c.logger,
	)
	overdue := jobs.NewOverdueShipmentsJob(
		queries.NewListOverdueShipmentsQueryHandler(c.gormDB),
		c.cfg.Jobs.OverdueShipmentsSchedule,
		c.cfg.Jobs.OverdueShipmentsLimit,
		c.logger,
	)
	return jobs.NewJobManager(sweep, overdue)
}

// Func*UoWFactory adapt the one GORM factory to the narrower factories each
// handler group depends on.
type FuncTenantUoWFactory func() commands.TenantUoW

func (f FuncTenantUoWFactory) Create() commands.TenantUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncRatingUoWFactory func() commands.RatingUoW

func (f FuncRatingUoWFactory) Create() commands.RatingUoW {
	return f()
}

// ActiveTrucksFunc reads active truck ids outside a transaction.
type ActiveTrucksFunc func(ctx context.Context) ([]kernel.UUID, error)

func (f ActiveTrucksFunc) ListActiveIDs(ctx context.Context) ([]kernel.UUID, error) {
	return f(ctx)
}
