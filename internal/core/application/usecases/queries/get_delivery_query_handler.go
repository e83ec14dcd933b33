package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads a delivery and its legs with two queries.
// Legs are ordered by creation.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle returns ObjectNotFound for deliveries of other carriers as well,
// so ids of foreign deliveries are not confirmed.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	var (
		response   GetDeliveryQueryResponse
		truckID    uuid.UUID
		driverName sql.NullString
		startedAt  sql.NullTime
		finishedAt sql.NullTime
		odometer   sql.NullInt64
	)
	err := db.Raw(`
		SELECT
			truck_id,
			driver_name,
			state,
			started_at,
			finished_at,
			odometer
		FROM deliveries
		WHERE id = ? AND carrier_id = ?
	`, query.DeliveryID().Bytes(), query.CarrierID().Bytes()).Row().Scan(
		&truckID,
		&driverName,
		&response.State,
		&startedAt,
		&finishedAt,
		&odometer,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDeliveryQueryResponse{}, errs.NewObjectNotFoundError("delivery", query.DeliveryID())
		}
		return GetDeliveryQueryResponse{}, err
	}

	response.ID = query.DeliveryID()
	response.CarrierID = query.CarrierID()
	if response.TruckID, err = kernel.UUIDFromBytes(truckID[:]); err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	response.DriverName = driverName.String
	if startedAt.Valid {
		response.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		response.FinishedAt = &finishedAt.Time
	}
	if odometer.Valid {
		value := int(odometer.Int64)
		response.Odometer = &value
	}

	response.Legs, err = h.legs(ctx, query.DeliveryID())
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	return response, nil
}

func (h GetDeliveryQueryHandler) legs(ctx context.Context, deliveryID kernel.UUID) ([]LegView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			shipment_id,
			sender_address,
			receiver_address,
			outcome,
			failure_reason,
			loaded_at,
			delivered_at
		FROM legs
		WHERE delivery_id = ?
		ORDER BY created_at, id
	`, deliveryID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	legs := make([]LegView, 0)
	for rows.Next() {
		var (
			leg                   LegView
			id, shipmentID        uuid.UUID
			failureReason         sql.NullString
			loadedAt, deliveredAt sql.NullTime
		)
		if err = rows.Scan(
			&id,
			&shipmentID,
			&leg.SenderAddress,
			&leg.ReceiverAddress,
			&leg.Outcome,
			&failureReason,
			&loadedAt,
			&deliveredAt,
		); err != nil {
			return nil, err
		}

		if leg.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if leg.ShipmentID, err = kernel.UUIDFromBytes(shipmentID[:]); err != nil {
			return nil, err
		}
		leg.FailureReason = failureReason.String
		if loadedAt.Valid {
			leg.LoadedAt = &loadedAt.Time
		}
		if deliveredAt.Valid {
			leg.DeliveredAt = &deliveredAt.Time
		}
		legs = append(legs, leg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return legs, nil
}
