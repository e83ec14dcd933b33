package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetCarrierRatingQueryHandler reads the stored running average. It does
// not aggregate the ratings table.
type GetCarrierRatingQueryHandler struct {
	db *gorm.DB
}

func NewGetCarrierRatingQueryHandler(db *gorm.DB) GetCarrierRatingQueryHandler {
	return GetCarrierRatingQueryHandler{db: db}
}

// Handle passes the stored values through carrier.NewRatingAggregate, so a
// corrupt row surfaces as a validation error instead of a bogus average.
func (h GetCarrierRatingQueryHandler) Handle(
	ctx context.Context,
	query GetCarrierRatingQuery,
) (GetCarrierRatingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCarrierRatingQueryResponse{}, err
	}

	var (
		name    string
		average decimal.Decimal
		count   int
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			name,
			rating_average,
			rating_count
		FROM carriers
		WHERE id = ?
	`, query.CarrierID().Bytes()).Row().Scan(&name, &average, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetCarrierRatingQueryResponse{}, errs.NewObjectNotFoundError("carrier", query.CarrierID())
		}
		return GetCarrierRatingQueryResponse{}, err
	}

	aggregate, err := carrier.NewRatingAggregate(average, count)
	if err != nil {
		return GetCarrierRatingQueryResponse{}, err
	}

	return GetCarrierRatingQueryResponse{
		CarrierID: query.CarrierID(),
		Name:      name,
		Average:   aggregate.AverageFloat(),
		Count:     aggregate.Count(),
	}, nil
}
