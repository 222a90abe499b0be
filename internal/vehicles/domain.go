package vehicles

import "time"

// Status is the availability state of a vehicle.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusSold      Status = "SOLD"
)

// Vehicle is a locally cached snapshot of a record owned by the vehicle
// inventory authority. ExternalID is the vehicle's id on the authority;
// business fields are overwritten wholesale on every sync.
type Vehicle struct {
	ID           int64     `json:"id"`
	ExternalID   int64     `json:"external_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color"`
	Price        float64   `json:"price"`
	Status       Status    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// RemoteVehicle is the authority's wire representation of a vehicle.
type RemoteVehicle struct {
	ID           int64     `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color"`
	Price        float64   `json:"price"`
	Status       Status    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}
