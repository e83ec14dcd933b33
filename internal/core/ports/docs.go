// Package ports defines the contracts between the freight core and its
// adapters: repositories, the unit of work, the event publisher, and the
// external collaborators (geocoding, notifications, rulebook cache).
package ports
