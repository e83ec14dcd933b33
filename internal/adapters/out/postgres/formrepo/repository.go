package formrepo

import (
	"context"

	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"

	"gorm.io/gorm"
)

// GormFormRepository implements ports.FormRepository using GORM.
type GormFormRepository struct {
	db *gorm.DB
}

// NewGormFormRepository creates a repository bound to db.
func NewGormFormRepository(db *gorm.DB) *GormFormRepository {
	return &GormFormRepository{db: db}
}

// Add inserts a form. Forms are append-only.
func (r *GormFormRepository) Add(ctx context.Context, f *form.Form) error {
	if err := f.Validate(); err != nil {
		return err
	}

	dto := fromDomain(f)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// History finds the latest inspection of the truck and counts the
// incidents reported after it. Forms filed against the truck's deliveries
// count as the truck's.
func (r *GormFormRepository) History(ctx context.Context, truckID kernel.UUID) (services.MaintenanceHistory, error) {
	if err := truckID.Validate(); err != nil {
		return services.MaintenanceHistory{}, err
	}

	db := r.db.WithContext(ctx)
	ofTruck := func() *gorm.DB {
		return db.Model(&FormDTO{}).Where(
			"(truck_id = ? OR delivery_id IN (?))",
			truckID.Bytes(),
			db.Table("deliveries").Select("id").Where("truck_id = ?", truckID.Bytes()),
		)
	}

	var history services.MaintenanceHistory

	var inspections []FormDTO
	if err := ofTruck().
		Where("kind = ?", string(form.KindInspection)).
		Order("submitted_at DESC").
		Limit(1).
		Find(&inspections).Error; err != nil {
		return services.MaintenanceHistory{}, err
	}

	incidents := ofTruck().Where("kind = ?", string(form.KindIncident))
	if len(inspections) > 0 {
		last, err := toDomain(inspections[0])
		if err != nil {
			return services.MaintenanceHistory{}, err
		}
		history.LastInspection = last
		incidents = incidents.Where("submitted_at > ?", last.SubmittedAt())
	}

	var count int64
	if err := incidents.Count(&count).Error; err != nil {
		return services.MaintenanceHistory{}, err
	}
	history.IncidentsSinceInspection = int(count)

	return history, nil
}
