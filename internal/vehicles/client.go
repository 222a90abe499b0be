package vehicles

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// Per-call upper bound for any request to the authority.
const defaultTimeout = 30 * time.Second

// RemoteClient is the gateway to the vehicle inventory authority. It
// never returns errors: a fetch that fails for any reason (missing
// record or unreachable authority) reports not-found, and a status push
// that fails reports false. Callers cannot distinguish an absent record
// from an authority outage.
type RemoteClient interface {
	// FetchByID returns the authority's record for the given external id,
	// or ok=false when it cannot be obtained.
	FetchByID(ctx context.Context, externalID int64) (*RemoteVehicle, bool)

	// FetchAvailable returns the authority's available vehicles, or an
	// empty slice when the listing cannot be obtained.
	FetchAvailable(ctx context.Context) []RemoteVehicle

	// PushStatus updates the vehicle's status on the authority. It
	// returns true only on a success-class response.
	PushStatus(ctx context.Context, externalID int64, status Status) bool
}

// Client talks to the authority over HTTP.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Client against the given authority base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout),
		logger: logger,
	}
}

func (c *Client) FetchByID(ctx context.Context, externalID int64) (*RemoteVehicle, bool) {
	var payload RemoteVehicle
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/api/v1/vehicles/%d", externalID))
	if err != nil {
		c.logger.Warn("authority fetch failed", zap.Int64("external_id", externalID), zap.Error(err))
		return nil, false
	}
	if !res.IsSuccess() {
		return nil, false
	}
	return &payload, true
}

func (c *Client) FetchAvailable(ctx context.Context) []RemoteVehicle {
	var payload []RemoteVehicle
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("status", string(StatusAvailable)).
		SetResult(&payload).
		Get("/api/v1/vehicles/")
	if err != nil {
		c.logger.Warn("authority listing failed", zap.Error(err))
		return []RemoteVehicle{}
	}
	if !res.IsSuccess() {
		return []RemoteVehicle{}
	}
	return payload
}

func (c *Client) PushStatus(ctx context.Context, externalID int64, status Status) bool {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"status": string(status)}).
		Put(fmt.Sprintf("/api/v1/vehicles/%d", externalID))
	if err != nil {
		c.logger.Warn("authority status push failed",
			zap.Int64("external_id", externalID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return false
	}
	return res.IsSuccess()
}
