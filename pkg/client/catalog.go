package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

// CatalogClient reads room and service metadata from the external catalog
// service. The catalog is read-only to the reservation engine.
type CatalogClient struct {
	httpClient *HttpClient
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *CatalogClient) Room(ctx context.Context, roomID string) (*model.CatalogRoom, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/catalog/rooms/"+url.PathEscape(roomID))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "catalog service unreachable", http.StatusServiceUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Room", roomID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("catalog returned status %d", resp.StatusCode), nil)
	}

	var room model.CatalogRoom
	if err := decodeData(resp, &room); err != nil {
		return nil, apperrors.Internal("failed to decode catalog room", err)
	}
	return &room, nil
}

func (c *CatalogClient) Service(ctx context.Context, serviceID string) (*model.CatalogService, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/catalog/services/"+url.PathEscape(serviceID))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "catalog service unreachable", http.StatusServiceUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Service", serviceID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("catalog returned status %d", resp.StatusCode), nil)
	}

	var service model.CatalogService
	if err := decodeData(resp, &service); err != nil {
		return nil, apperrors.Internal("failed to decode catalog service", err)
	}
	return &service, nil
}

// WaitForHealthy blocks until the catalog answers its health check, so the
// engine does not come up routing traffic against a dead catalog.
func (c *CatalogClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return err
	}
	return json.Unmarshal(wrapper.Data, target)
}
