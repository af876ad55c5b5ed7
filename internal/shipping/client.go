package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/printhuis/quoteportal-backend/pkg/config"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

const (
	defaultTimeout          = 10 * time.Second
	responseBodyLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("routing api key is required")

// Client wraps the routing provider used to measure warehouse-to-client
// distances.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	warehouse  routePoint
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured routing base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the routing client from the shipping configuration.
func NewClient(cfg config.ShippingConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.RoutingAPIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSpace(cfg.RoutingBaseURL),
		httpClient: &http.Client{Timeout: timeout},
		warehouse: routePoint{
			PostalCode: cfg.WarehousePostalCode,
			Country:    cfg.WarehouseCountry,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

type routeRequest struct {
	Origin      routePoint `json:"origin"`
	Destination routePoint `json:"destination"`
}

type routePoint struct {
	PostalCode string `json:"postalCode"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country"`
}

// Distance returns the driving distance in kilometers from the warehouse to
// the delivery address.
func (c *Client) Distance(ctx context.Context, destination types.Address) (float64, error) {
	if c == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "routing client not configured")
	}
	if c.baseURL == "" {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "routing base url not configured")
	}

	payload, err := json.Marshal(routeRequest{
		Origin: c.warehouse,
		Destination: routePoint{
			PostalCode: destination.PostalCode,
			City:       destination.City,
			Country:    destination.Country,
		},
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal route request")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/routes/distance"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build route request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute route request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "route request failed")
	}

	var apiResp struct {
		DistanceKm float64 `json:"distanceKm"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode route response")
	}
	if apiResp.DistanceKm < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "routing provider returned a negative distance")
	}

	return apiResp.DistanceKm, nil
}
