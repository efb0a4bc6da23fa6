// Package client talks to the public booking and catalogue endpoints the way
// the marketing site does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"relocare/models"
	"relocare/services/notification"
)

const defaultTimeout = 10 * time.Second

// Client is a thin JSON client for the public API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Sink receives poll failures. Nil means they are dropped.
	Sink notification.Sink
}

func New(baseURL string, sink notification.Sink) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Sink:       sink,
	}
}

// APIError is a non-2xx reply decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type servicesResponse struct {
	Success  bool             `json:"success"`
	Services []models.Service `json:"services"`
}

type createBookingResponse struct {
	Success   bool           `json:"success"`
	BookingID string         `json:"bookingId"`
	Booking   models.Booking `json:"booking"`
}

// ListServices fetches the active catalogue.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var out servicesResponse
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &out); err != nil {
		return nil, err
	}
	if out.Services == nil {
		out.Services = []models.Service{}
	}
	return out.Services, nil
}

// CreateBooking submits the public booking form.
func (c *Client) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	var out createBookingResponse
	if err := c.do(ctx, http.MethodPost, "/api/bookings", input, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request failed: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error  string   `json:"error"`
			Fields []string `json:"fields"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error, Fields: envelope.Fields}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response failed: %w", err)
	}
	return nil
}
