// Package client talks to the remote /pins resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/dtos"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
)

const maxErrorBody = 512

// StatusError is returned for any non-2xx answer from the pins resource.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s pins: unexpected status %d: %s", e.Op, e.Code, e.Body)
}

type PinClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewPinClient(baseURL string, timeout time.Duration) *PinClient {
	return &PinClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GET /pins
func (c *PinClient) GetPins(ctx context.Context) ([]models.Pin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/pins", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var resp []dtos.Pin
	if err := c.do(req, "list", &resp); err != nil {
		return nil, err
	}

	pins := make([]models.Pin, 0, len(resp))
	for _, p := range resp {
		pins = append(pins, p.ToModel())
	}
	return pins, nil
}

// POST /pins
func (c *PinClient) CreatePin(ctx context.Context, in dtos.CreatePinRequest) (*models.Pin, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/pins", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var resp dtos.Pin
	if err := c.do(req, "create", &resp); err != nil {
		return nil, err
	}
	pin := resp.ToModel()
	return &pin, nil
}

func (c *PinClient) do(req *http.Request, op string, out interface{}) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s pins: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &StatusError{Op: op, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s pins: decode response: %w", op, err)
	}
	return nil
}
