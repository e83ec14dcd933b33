package queries

import (
	"context"
	"database/sql"

	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOverdueShipmentsQueryHandler feeds the overdue shipments job.
//
// Example:
//
//	query, err := NewListOverdueShipmentsQuery(time.Now(), 100)
//	if err != nil {
//	    return err
//	}
//	overdue, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, s := range overdue {
//	    // notify s.CarrierID about s.ShipmentID
//	}
type ListOverdueShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewListOverdueShipmentsQueryHandler(db *gorm.DB) ListOverdueShipmentsQueryHandler {
	return ListOverdueShipmentsQueryHandler{db: db}
}

// Handle returns the most overdue shipments first. Shipments without a
// status count as open.
func (h ListOverdueShipmentsQueryHandler) Handle(
	ctx context.Context,
	query ListOverdueShipmentsQuery,
) ([]OverdueShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.carrier_id,
			s.truck_id,
			s.deliver_by,
			st.name
		FROM shipments s
		LEFT JOIN statuses st ON st.id = s.status_id
		WHERE s.carrier_id IS NOT NULL
			AND s.deliver_by < ?
			AND (st.closed IS NULL OR st.closed = ?)
		ORDER BY s.deliver_by, s.id
		LIMIT ?
	`, query.Now(), false, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := make([]OverdueShipmentView, 0)
	for rows.Next() {
		var (
			view          OverdueShipmentView
			id, carrierID uuid.UUID
			truckID       uuid.NullUUID
			statusName    sql.NullString
		)
		if err = rows.Scan(&id, &carrierID, &truckID, &view.DeliverBy, &statusName); err != nil {
			return nil, err
		}

		if view.ShipmentID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.CarrierID, err = kernel.UUIDFromBytes(carrierID[:]); err != nil {
			return nil, err
		}
		if view.TruckID, err = nullableUUID(truckID); err != nil {
			return nil, err
		}
		view.StatusName = statusName.String
		shipments = append(shipments, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return shipments, nil
}
