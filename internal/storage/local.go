// Package storage provides the store implementations behind the
// vehicles and sales storage interfaces: an in-memory store for
// single-process use and tests, and a MySQL store for deployments that
// share one database between instances.
package storage

import (
	"context"
	"sort"
	"sync"

	"api_vehicle_sales/internal/sales"
	"api_vehicle_sales/internal/vehicles"
)

// LocalStorage is an in-memory store implementing both the vehicle
// cache and the sale repository. One mutex serializes every operation,
// so check-then-set sequences inside a single method are atomic. It
// must not be fronted by multiple service instances.
type LocalStorage struct {
	mu sync.Mutex

	vehiclesByID  map[int64]*vehicles.Vehicle
	externalIndex map[int64]int64 // authority id -> local id
	salesByCode   map[string]*sales.Sale

	nextVehicleID int64
	nextSaleID    int64
}

// NewLocalStorage instantiates an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		vehiclesByID:  map[int64]*vehicles.Vehicle{},
		externalIndex: map[int64]int64{},
		salesByCode:   map[string]*sales.Sale{},
	}
}

// Stored snapshots are never mutated in place; writes replace the
// stored pointer with a fresh copy so previously returned snapshots
// stay stable.

func (l *LocalStorage) UpsertVehicle(ctx context.Context, v *vehicles.Vehicle) (*vehicles.Vehicle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := *v
	if id, ok := l.externalIndex[v.ExternalID]; ok {
		existing := l.vehiclesByID[id]
		next.ID = existing.ID
		next.RegisteredAt = existing.RegisteredAt
	} else {
		l.nextVehicleID++
		next.ID = l.nextVehicleID
		l.externalIndex[next.ExternalID] = next.ID
	}
	l.vehiclesByID[next.ID] = &next

	out := next
	return &out, nil
}

func (l *LocalStorage) VehicleByID(ctx context.Context, id int64) (*vehicles.Vehicle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.vehiclesByID[id]
	if !ok {
		return nil, vehicles.ErrVehicleNotFound
	}
	return v, nil
}

func (l *LocalStorage) VehicleByExternalID(ctx context.Context, externalID int64) (*vehicles.Vehicle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.externalIndex[externalID]
	if !ok {
		return nil, vehicles.ErrVehicleNotFound
	}
	return l.vehiclesByID[id], nil
}

func (l *LocalStorage) VehiclesByStatus(ctx context.Context, status vehicles.Status) ([]*vehicles.Vehicle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]*vehicles.Vehicle, 0)
	for _, v := range l.vehiclesByID {
		if v.Status == status {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	return result, nil
}

func (l *LocalStorage) Reserve(ctx context.Context, sale *sales.Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.vehiclesByID[sale.VehicleID]
	if !ok || v.Status != vehicles.StatusAvailable {
		return sales.ErrVehicleUnavailable
	}
	// A snapshot can be synced back to AVAILABLE while its sale is still
	// live (the authority never saw a failed push); the active-sale check
	// keeps the vehicle single-sold regardless.
	for _, s := range l.salesByCode {
		if s.VehicleID == sale.VehicleID && s.PaymentStatus != sales.PaymentCancelled {
			return sales.ErrVehicleUnavailable
		}
	}

	l.nextSaleID++
	sale.ID = l.nextSaleID

	stored := *sale
	l.salesByCode[stored.PaymentCode] = &stored

	flipped := *v
	flipped.Status = vehicles.StatusSold
	l.vehiclesByID[v.ID] = &flipped

	return nil
}

func (l *LocalStorage) Settle(ctx context.Context, paymentCode string, status sales.PaymentStatus) (*sales.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale, ok := l.salesByCode[paymentCode]
	if !ok {
		return nil, sales.ErrSaleNotFound
	}
	if sale.PaymentStatus != sales.PaymentPending {
		return nil, &sales.AlreadyProcessedError{
			PaymentCode: paymentCode,
			Status:      sale.PaymentStatus,
		}
	}

	settled := *sale
	settled.PaymentStatus = status
	l.salesByCode[paymentCode] = &settled

	if status == sales.PaymentCancelled {
		if v, ok := l.vehiclesByID[settled.VehicleID]; ok {
			flipped := *v
			flipped.Status = vehicles.StatusAvailable
			l.vehiclesByID[v.ID] = &flipped
		}
	}

	return &settled, nil
}

func (l *LocalStorage) SaleByPaymentCode(ctx context.Context, paymentCode string) (*sales.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale, ok := l.salesByCode[paymentCode]
	if !ok {
		return nil, sales.ErrSaleNotFound
	}
	return sale, nil
}

func (l *LocalStorage) AllSales(ctx context.Context) ([]*sales.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]*sales.Sale, 0, len(l.salesByCode))
	for _, s := range l.salesByCode {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
