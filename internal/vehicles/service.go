package vehicles

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service keeps the local vehicle cache in step with the authority and
// serves the cached snapshots.
type Service struct {
	client  RemoteClient
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new vehicle Service.
func NewService(client RemoteClient, storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

// SyncFromAuthority pulls the vehicle with the given external id from
// the authority and upserts it into the local cache. It returns
// ErrVehicleNotFound when the authority has no such vehicle or cannot
// be reached; the two cases are indistinguishable at this layer.
func (s *Service) SyncFromAuthority(ctx context.Context, externalID int64) (*Vehicle, error) {
	payload, ok := s.client.FetchByID(ctx, externalID)
	if !ok {
		return nil, fmt.Errorf("%w: external id %d", ErrVehicleNotFound, externalID)
	}

	stored, err := s.storage.UpsertVehicle(ctx, &Vehicle{
		ExternalID:   payload.ID,
		Make:         payload.Make,
		Model:        payload.Model,
		Year:         payload.Year,
		Color:        payload.Color,
		Price:        payload.Price,
		Status:       payload.Status,
		RegisteredAt: payload.RegisteredAt,
		LastSyncedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to upsert vehicle snapshot",
			zap.Int64("external_id", externalID), zap.Error(err))
		return nil, fmt.Errorf("failed to cache vehicle %d: %w", externalID, err)
	}

	s.logger.Info("vehicle synced from authority",
		zap.Int64("external_id", externalID),
		zap.String("status", string(stored.Status)),
	)
	return stored, nil
}

// ByID returns the cached snapshot with the given local id.
func (s *Service) ByID(ctx context.Context, id int64) (*Vehicle, error) {
	return s.storage.VehicleByID(ctx, id)
}

// Available returns cached available vehicles, cheapest first.
func (s *Service) Available(ctx context.Context) ([]*Vehicle, error) {
	return s.storage.VehiclesByStatus(ctx, StatusAvailable)
}

// Sold returns cached sold vehicles, cheapest first.
func (s *Service) Sold(ctx context.Context) ([]*Vehicle, error) {
	return s.storage.VehiclesByStatus(ctx, StatusSold)
}

// PushStatus propagates a status change to the authority. Best-effort:
// a false return means the authority may be stale until the next sync.
func (s *Service) PushStatus(ctx context.Context, externalID int64, status Status) bool {
	return s.client.PushStatus(ctx, externalID, status)
}
