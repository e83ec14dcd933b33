// Package kernel provides the value objects shared by every freight aggregate.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Address: a postal address with optional geocoded Coordinates
//   - Coordinates: a validated latitude/longitude pair
//   - Dimensions: weight and volume of a shipment or a truck's capacity
//
// All value objects are immutable; their zero values are invalid and fail
// Validate, so they must be built through their constructors.
package kernel
