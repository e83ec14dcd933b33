package rulebookrepo

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRulebookRepository implements ports.RulebookRepository using GORM.
type GormRulebookRepository struct {
	db *gorm.DB
}

func NewGormRulebookRepository(db *gorm.DB) *GormRulebookRepository {
	return &GormRulebookRepository{db: db}
}

// Get loads every status and rule of the carrier and validates them as one
// rulebook.
func (r *GormRulebookRepository) Get(ctx context.Context, carrierID kernel.UUID) (*carrier.Rulebook, error) {
	if err := carrierID.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var statusDTOs []StatusDTO
	if err := db.Where("carrier_id = ?", carrierID.Bytes()).Order("created_at, name").Find(&statusDTOs).Error; err != nil {
		return nil, err
	}
	var ruleDTOs []RuleDTO
	if err := db.Where("carrier_id = ?", carrierID.Bytes()).Order("event").Find(&ruleDTOs).Error; err != nil {
		return nil, err
	}

	statuses := make([]*carrier.Status, 0, len(statusDTOs))
	for _, dto := range statusDTOs {
		s, err := statusToDomain(dto)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	rules := make([]carrier.Rule, 0, len(ruleDTOs))
	for _, dto := range ruleDTOs {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return carrier.NewRulebook(carrierID, statuses, rules)
}

// AddStatus inserts one catalog entry. A duplicate name for the carrier
// violates ux_statuses_carrier_name.
func (r *GormRulebookRepository) AddStatus(ctx context.Context, s *carrier.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := statusFromDomain(s)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// SaveRule upserts the rule on its (carrier_id, event) primary key. A nil
// StatusID is stored as NULL, the explicit "no status change" binding.
func (r *GormRulebookRepository) SaveRule(ctx context.Context, carrierID kernel.UUID, rule carrier.Rule) error {
	if err := carrierID.Validate(); err != nil {
		return err
	}
	if err := rule.Event.Validate(); err != nil {
		return err
	}

	dto := RuleDTO{
		CarrierID: carrierID.Bytes(),
		Event:     rule.Event.String(),
		StatusID:  kernel.OptionalBytes(rule.StatusID),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "carrier_id"}, {Name: "event"}},
		DoUpdates: clause.AssignmentColumns([]string{"status_id", "updated_at"}),
	}).Create(&dto).Error
}
