package ports

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/ddd"
)

// EventPublisher hands committed domain events to asynchronous consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent) error
}

// Geocoder resolves a free-text address. A nil result with a nil error means
// the address is unknown. Transient failures, rate limiting included, must
// be returned as errors so the job is retried.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*kernel.Coordinates, error)
}

// Notifier dispatches fire-and-forget notifications.
type Notifier interface {
	MaintenanceDue(ctx context.Context, truckID kernel.UUID) error
	ShipmentDelivered(ctx context.Context, shipmentID kernel.UUID) error
}

// CachedRule is one read of the rulebook cache.
type CachedRule struct {
	// StatusID is the cached binding. Nil on a hit means "no rule".
	StatusID *kernel.UUID
	// Found is false on a cache miss.
	Found bool
	// Generation is the carrier's cache generation at the time of the read.
	// A read-through Set must carry it.
	Generation int64
}

// RulebookCache caches resolved rules per (carrier, event).
//
// Entries are stored under a per-carrier generation and Invalidate starts a
// new one. A Set computed from a database read that raced a rule change
// carries the old generation and lands where no Get looks, so a replaced
// binding is never served again.
//
// Example:
//
//	entry, err := cache.Get(ctx, carrierID, carrier.EventLoaded)
//	if err == nil && entry.Found {
//	    return entry.StatusID, nil
//	}
//	statusID := loadFromDatabase()
//	if err == nil {
//	    _ = cache.Set(ctx, carrierID, entry.Generation, carrier.EventLoaded, statusID)
//	}
type RulebookCache interface {
	Get(ctx context.Context, carrierID kernel.UUID, event carrier.Event) (CachedRule, error)
	Set(ctx context.Context, carrierID kernel.UUID, generation int64, event carrier.Event, statusID *kernel.UUID) error
	Invalidate(ctx context.Context, carrierID kernel.UUID) error
}
