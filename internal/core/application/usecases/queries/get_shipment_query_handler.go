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

// GetShipmentQueryHandler reads one shipment with its current status in a
// single query. The shipment is visible to every caller; the status flags
// let the caller decide what a customer may still change.
//
// Example:
//
//	query, err := NewGetShipmentQuery(shipmentID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if view.Status != nil && view.Status.LockedForCustomers {
//	    // refuse the customer's edit
//	}
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentQueryHandler creates a handler reading through db.
func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle leaves CarrierID, TruckID and Status nil when the shipment has
// none of them.
func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	var (
		response                     GetShipmentQueryResponse
		carrierID, truckID, statusID uuid.NullUUID
		statusName                   sql.NullString
		statusLocked, statusClosed   sql.NullBool
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.sender_name,
			s.sender_address,
			s.receiver_name,
			s.receiver_address,
			s.weight_kg,
			s.volume_m3,
			s.deliver_by,
			s.carrier_id,
			s.truck_id,
			st.id,
			st.name,
			st.locked_for_customers,
			st.closed
		FROM shipments s
		LEFT JOIN statuses st ON st.id = s.status_id
		WHERE s.id = ?
	`, query.ShipmentID().Bytes()).Row().Scan(
		&response.SenderName,
		&response.SenderAddress,
		&response.ReceiverName,
		&response.ReceiverAddress,
		&response.WeightKg,
		&response.VolumeM3,
		&response.DeliverBy,
		&carrierID,
		&truckID,
		&statusID,
		&statusName,
		&statusLocked,
		&statusClosed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipment", query.ShipmentID())
		}
		return GetShipmentQueryResponse{}, err
	}

	response.ID = query.ShipmentID()
	if response.CarrierID, err = nullableUUID(carrierID); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if response.TruckID, err = nullableUUID(truckID); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	if statusID.Valid {
		id, idErr := kernel.UUIDFromBytes(statusID.UUID[:])
		if idErr != nil {
			return GetShipmentQueryResponse{}, idErr
		}
		response.Status = &ShipmentStatusView{
			ID:                 id,
			Name:               statusName.String,
			LockedForCustomers: statusLocked.Bool,
			Closed:             statusClosed.Bool,
		}
	}

	return response, nil
}

// nullableUUID maps SQL NULL to a nil id.
func nullableUUID(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
