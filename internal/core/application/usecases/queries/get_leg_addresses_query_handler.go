package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetLegAddressesQueryHandler serves the geocoding worker. A side counts as
// geocoded only when both of its coordinates are stored.
type GetLegAddressesQueryHandler struct {
	db *gorm.DB
}

func NewGetLegAddressesQueryHandler(db *gorm.DB) GetLegAddressesQueryHandler {
	return GetLegAddressesQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown leg.
func (h GetLegAddressesQueryHandler) Handle(
	ctx context.Context,
	query GetLegAddressesQuery,
) (GetLegAddressesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLegAddressesQueryResponse{}, err
	}

	response := GetLegAddressesQueryResponse{LegID: query.LegID()}
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			sender_address,
			sender_latitude IS NOT NULL AND sender_longitude IS NOT NULL,
			receiver_address,
			receiver_latitude IS NOT NULL AND receiver_longitude IS NOT NULL
		FROM legs
		WHERE id = ?
	`, query.LegID().Bytes()).Row().Scan(
		&response.SenderAddress,
		&response.SenderGeocoded,
		&response.ReceiverAddress,
		&response.ReceiverGeocoded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetLegAddressesQueryResponse{}, errs.NewObjectNotFoundError("leg", query.LegID())
		}
		return GetLegAddressesQueryResponse{}, err
	}

	return response, nil
}
