// Package gateway contains HTTP and side-effect adapters for the external
// collaborators of the shipment lifecycle: geocoding, invoicing, QR
// rendering, and email.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const opencageBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// OpenCageGeocoder resolves free-text addresses through the OpenCage API.
type OpenCageGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenCageGeocoder(apiKey string, client *http.Client) *OpenCageGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenCageGeocoder{apiKey: apiKey, baseURL: opencageBaseURL, client: client}
}

type opencageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *OpenCageGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("key", g.apiKey)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("opencage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("opencage returned status %d", resp.StatusCode)
	}

	var body opencageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("opencage decode: %w", err)
	}

	if len(body.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("opencage: no results for address")
	}

	return domain.Coordinates{
		Lat: body.Results[0].Geometry.Lat,
		Lng: body.Results[0].Geometry.Lng,
	}, nil
}
