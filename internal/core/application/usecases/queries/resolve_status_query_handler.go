package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResolveStatusQueryHandler reads through the rulebook cache when one is
// configured. Cache failures fall back to the database.
//
// A cache miss is filled with the database answer under the generation
// read before the database was queried, so the fill cannot outlive a
// concurrent BindRule invalidation.
type ResolveStatusQueryHandler struct {
	db    *gorm.DB
	cache ports.RulebookCache
}

// NewResolveStatusQueryHandler creates the handler. cache may be nil.
func NewResolveStatusQueryHandler(db *gorm.DB, cache ports.RulebookCache) ResolveStatusQueryHandler {
	return ResolveStatusQueryHandler{db: db, cache: cache}
}

// Handle returns the status bound to the event, or a nil StatusID when the
// event is unbound or the carrier has no rule for it.
func (h ResolveStatusQueryHandler) Handle(
	ctx context.Context,
	query ResolveStatusQuery,
) (ResolveStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveStatusQueryResponse{}, err
	}

	response := ResolveStatusQueryResponse{CarrierID: query.CarrierID(), Event: query.Event()}

	// No fill after a failed read: there is no generation to write under.
	var (
		entry ports.CachedRule
		fill  bool
	)
	if h.cache != nil {
		var err error
		entry, err = h.cache.Get(ctx, query.CarrierID(), query.Event())
		switch {
		case err != nil:
			logger.Z().Warn("rulebook cache read failed",
				zap.String("carrier_id", query.CarrierID().String()), zap.Error(err))
		case entry.Found:
			response.StatusID = entry.StatusID
			return response, nil
		default:
			fill = true
		}
	}

	var raw uuid.NullUUID
	err := h.db.WithContext(ctx).Raw(`
		SELECT status_id
		FROM rules
		WHERE carrier_id = ? AND event = ?
	`, query.CarrierID().Bytes(), query.Event().String()).Row().Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ResolveStatusQueryResponse{}, err
	}

	if raw.Valid {
		statusID, idErr := kernel.UUIDFromBytes(raw.UUID[:])
		if idErr != nil {
			return ResolveStatusQueryResponse{}, idErr
		}
		response.StatusID = &statusID
	}

	if fill {
		if cacheErr := h.cache.Set(ctx, query.CarrierID(), entry.Generation, query.Event(), response.StatusID); cacheErr != nil {
			logger.Z().Warn("rulebook cache write failed",
				zap.String("carrier_id", query.CarrierID().String()), zap.Error(cacheErr))
		}
	}

	return response, nil
}
