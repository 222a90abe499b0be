package vehicles

import (
	"context"
	"errors"
)

// ErrVehicleNotFound is returned when a vehicle is neither cached
// locally nor obtainable from the authority.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Storage is the local cache of vehicle snapshots.
type Storage interface {
	// UpsertVehicle inserts the snapshot, or overwrites the business
	// fields and status of the existing snapshot with the same
	// ExternalID (last writer wins). The local id and RegisteredAt of an
	// existing snapshot are preserved. Returns the stored snapshot.
	UpsertVehicle(ctx context.Context, v *Vehicle) (*Vehicle, error)

	// VehicleByID returns the snapshot with the given local id, or
	// ErrVehicleNotFound.
	VehicleByID(ctx context.Context, id int64) (*Vehicle, error)

	// VehicleByExternalID returns the snapshot with the given authority
	// id, or ErrVehicleNotFound.
	VehicleByExternalID(ctx context.Context, externalID int64) (*Vehicle, error)

	// VehiclesByStatus returns snapshots in the given status ordered by
	// ascending price.
	VehiclesByStatus(ctx context.Context, status Status) ([]*Vehicle, error)
}
