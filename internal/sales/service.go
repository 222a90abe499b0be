package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"api_vehicle_sales/internal/cpf"
	"api_vehicle_sales/internal/vehicles"
)

// ErrInvalidCPF is returned when the buyer CPF fails validation. The
// wrapped cpf error says whether format or checksum failed.
var ErrInvalidCPF = errors.New("invalid buyer cpf")

// ErrInvalidStatus is returned when a webhook reports a status other
// than CONFIRMED or CANCELLED.
var ErrInvalidStatus = errors.New("invalid payment status")

// Service orchestrates sale creation and payment-webhook processing.
type Service struct {
	storage  Storage
	vehicles *vehicles.Service
	logger   *zap.Logger
}

// NewService creates a new sales Service.
func NewService(storage Storage, vehicleService *vehicles.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage:  storage,
		vehicles: vehicleService,
		logger:   logger,
	}
}

// WebhookResult is the outcome of a processed payment webhook.
type WebhookResult struct {
	Message       string           `json:"message"`
	PaymentCode   string           `json:"payment_code"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	VehicleStatus *vehicles.Status `json:"vehicle_status,omitempty"`
}

// CreateSale sells the vehicle with the given authority id to the buyer
// identified by rawCPF.
//
// The buyer CPF is validated before any I/O. The vehicle snapshot is
// re-synced from the authority and the availability check runs on that
// fresh snapshot, so a stale cache can never cause a false accept. The
// sale insert and the AVAILABLE→SOLD flip commit in one store
// transaction; the push of the new status to the authority happens
// after the commit and its failure is logged, never surfaced.
func (s *Service) CreateSale(ctx context.Context, externalVehicleID int64, rawCPF string) (*Sale, error) {
	buyerCPF, err := cpf.Validate(rawCPF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCPF, err)
	}

	vehicle, err := s.vehicles.SyncFromAuthority(ctx, externalVehicleID)
	if err != nil {
		return nil, err
	}

	if vehicle.Status != vehicles.StatusAvailable {
		return nil, fmt.Errorf("%w: vehicle %d", ErrVehicleUnavailable, externalVehicleID)
	}

	sale := &Sale{
		VehicleID:     vehicle.ID,
		BuyerCPF:      buyerCPF,
		PaymentCode:   uuid.NewString(),
		PaymentStatus: PaymentPending,
		CreatedAt:     time.Now(),
		Amount:        vehicle.Price,
	}

	if err := s.storage.Reserve(ctx, sale); err != nil {
		if errors.Is(err, ErrVehicleUnavailable) {
			// Lost the race against a concurrent sale on the same vehicle.
			return nil, fmt.Errorf("%w: vehicle %d", ErrVehicleUnavailable, externalVehicleID)
		}
		s.logger.Error("failed to persist sale",
			zap.Int64("vehicle_id", vehicle.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	s.logger.Info("sale created",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("vehicle_id", vehicle.ID),
		zap.String("payment_code", sale.PaymentCode),
		zap.Float64("amount", sale.Amount),
	)

	if !s.vehicles.PushStatus(ctx, vehicle.ExternalID, vehicles.StatusSold) {
		s.logger.Warn("authority not updated after sale, cache stays authoritative",
			zap.Int64("external_id", vehicle.ExternalID),
			zap.String("payment_code", sale.PaymentCode),
		)
	}

	return sale, nil
}

// ProcessPaymentWebhook applies the payment outcome reported for the
// given payment code. The transition out of PENDING happens exactly
// once; every later delivery for the same code fails with
// *AlreadyProcessedError regardless of the status it reports.
func (s *Service) ProcessPaymentWebhook(ctx context.Context, paymentCode string, status PaymentStatus) (*WebhookResult, error) {
	if status != PaymentConfirmed && status != PaymentCancelled {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	sale, err := s.storage.Settle(ctx, paymentCode, status)
	if err != nil {
		return nil, err
	}

	result := &WebhookResult{
		PaymentCode:   sale.PaymentCode,
		PaymentStatus: sale.PaymentStatus,
	}

	switch status {
	case PaymentConfirmed:
		result.Message = "payment confirmed"
		st := vehicles.StatusSold
		result.VehicleStatus = &st
	case PaymentCancelled:
		result.Message = "payment cancelled"
		st := vehicles.StatusAvailable
		result.VehicleStatus = &st
		s.pushReversal(ctx, sale)
	}

	s.logger.Info("payment webhook processed",
		zap.String("payment_code", paymentCode),
		zap.String("payment_status", string(status)),
	)
	return result, nil
}

// pushReversal propagates the AVAILABLE flip of a cancelled sale's
// vehicle to the authority. Best-effort.
func (s *Service) pushReversal(ctx context.Context, sale *Sale) {
	vehicle, err := s.vehicles.ByID(ctx, sale.VehicleID)
	if err != nil {
		s.logger.Warn("vehicle lookup failed after cancellation",
			zap.Int64("vehicle_id", sale.VehicleID), zap.Error(err))
		return
	}
	if !s.vehicles.PushStatus(ctx, vehicle.ExternalID, vehicles.StatusAvailable) {
		s.logger.Warn("authority not updated after cancellation, cache stays authoritative",
			zap.Int64("external_id", vehicle.ExternalID),
			zap.String("payment_code", sale.PaymentCode),
		)
	}
}

// Sales returns every recorded sale.
func (s *Service) Sales(ctx context.Context) ([]*Sale, error) {
	return s.storage.AllSales(ctx)
}

// SaleByPaymentCode returns the sale with the given payment code.
func (s *Service) SaleByPaymentCode(ctx context.Context, paymentCode string) (*Sale, error) {
	return s.storage.SaleByPaymentCode(ctx, paymentCode)
}
