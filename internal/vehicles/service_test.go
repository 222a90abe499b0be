package vehicles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"api_vehicle_sales/internal/storage"
	"api_vehicle_sales/internal/vehicles"
)

type stubClient struct {
	records map[int64]vehicles.RemoteVehicle
}

func (s *stubClient) FetchByID(ctx context.Context, externalID int64) (*vehicles.RemoteVehicle, bool) {
	r, ok := s.records[externalID]
	if !ok {
		return nil, false
	}
	return &r, true
}

func (s *stubClient) FetchAvailable(ctx context.Context) []vehicles.RemoteVehicle {
	return nil
}

func (s *stubClient) PushStatus(ctx context.Context, externalID int64, status vehicles.Status) bool {
	return true
}

func TestSyncFromAuthority_CreatesSnapshot(t *testing.T) {
	registered := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	client := &stubClient{records: map[int64]vehicles.RemoteVehicle{
		5: {ID: 5, Make: "VW", Model: "Polo", Year: 2023, Color: "white",
			Price: 75000, Status: vehicles.StatusAvailable, RegisteredAt: registered},
	}}
	store := storage.NewLocalStorage()
	svc := vehicles.NewService(client, store, zaptest.NewLogger(t))

	v, err := svc.SyncFromAuthority(context.Background(), 5)
	if err != nil {
		t.Fatalf("SyncFromAuthority returned error: %v", err)
	}
	if v.ID == 0 {
		t.Error("local id was not assigned")
	}
	if v.ExternalID != 5 || v.Make != "VW" || v.Price != 75000 {
		t.Errorf("unexpected snapshot: %+v", v)
	}
	if !v.RegisteredAt.Equal(registered) {
		t.Errorf("RegisteredAt = %v, want %v", v.RegisteredAt, registered)
	}
	if v.LastSyncedAt.IsZero() {
		t.Error("LastSyncedAt was not stamped")
	}
}

func TestSyncFromAuthority_OverwritesBusinessFields(t *testing.T) {
	registered := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	client := &stubClient{records: map[int64]vehicles.RemoteVehicle{
		5: {ID: 5, Make: "VW", Model: "Polo", Price: 75000,
			Status: vehicles.StatusAvailable, RegisteredAt: registered},
	}}
	store := storage.NewLocalStorage()
	svc := vehicles.NewService(client, store, zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := svc.SyncFromAuthority(ctx, 5)
	if err != nil {
		t.Fatalf("first sync returned error: %v", err)
	}

	// The authority updates the price and sells the vehicle elsewhere.
	client.records[5] = vehicles.RemoteVehicle{
		ID: 5, Make: "VW", Model: "Polo", Price: 79000,
		Status: vehicles.StatusSold,
		RegisteredAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	second, err := svc.SyncFromAuthority(ctx, 5)
	if err != nil {
		t.Fatalf("second sync returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("local id changed across syncs: %d != %d", second.ID, first.ID)
	}
	if second.Price != 79000 {
		t.Errorf("Price = %v, want overwritten 79000", second.Price)
	}
	if second.Status != vehicles.StatusSold {
		t.Errorf("Status = %s, want overwritten SOLD", second.Status)
	}
	if !second.RegisteredAt.Equal(registered) {
		t.Errorf("RegisteredAt changed on update: %v", second.RegisteredAt)
	}
}

func TestSyncFromAuthority_NotFound(t *testing.T) {
	client := &stubClient{records: map[int64]vehicles.RemoteVehicle{}}
	store := storage.NewLocalStorage()
	svc := vehicles.NewService(client, store, zaptest.NewLogger(t))

	_, err := svc.SyncFromAuthority(context.Background(), 404)
	if !errors.Is(err, vehicles.ErrVehicleNotFound) {
		t.Fatalf("error = %v, want ErrVehicleNotFound", err)
	}
}

func TestListingsOrderedByPrice(t *testing.T) {
	client := &stubClient{records: map[int64]vehicles.RemoteVehicle{
		1: {ID: 1, Make: "Jeep", Price: 150000, Status: vehicles.StatusAvailable},
		2: {ID: 2, Make: "Fiat", Price: 60000, Status: vehicles.StatusAvailable},
		3: {ID: 3, Make: "VW", Price: 75000, Status: vehicles.StatusSold},
	}}
	store := storage.NewLocalStorage()
	svc := vehicles.NewService(client, store, zaptest.NewLogger(t))
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		if _, err := svc.SyncFromAuthority(ctx, id); err != nil {
			t.Fatalf("sync %d returned error: %v", id, err)
		}
	}

	available, err := svc.Available(ctx)
	if err != nil {
		t.Fatalf("Available returned error: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("Available returned %d vehicles, want 2", len(available))
	}
	if available[0].Make != "Fiat" || available[1].Make != "Jeep" {
		t.Errorf("available vehicles not ordered by ascending price: %s, %s",
			available[0].Make, available[1].Make)
	}

	sold, err := svc.Sold(ctx)
	if err != nil {
		t.Fatalf("Sold returned error: %v", err)
	}
	if len(sold) != 1 || sold[0].Make != "VW" {
		t.Errorf("unexpected sold listing: %+v", sold)
	}
}
