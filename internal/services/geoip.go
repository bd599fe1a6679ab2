package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GeoLocation is the subset of geolocation data the API exposes.
type GeoLocation struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// GeoIP resolves an IP address to a coarse location.
type GeoIP interface {
	Lookup(ctx context.Context, ip string) (*GeoLocation, error)
}

// GeoIPService implements GeoIP against an ip-api style JSON endpoint.
type GeoIPService struct {
	baseURL    string
	httpClient *http.Client
}

var _ GeoIP = (*GeoIPService)(nil)

func NewGeoIPService(baseURL string) *GeoIPService {
	return &GeoIPService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geoIPResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

func (g *GeoIPService) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+ip, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geoip request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip API returned status %d", resp.StatusCode)
	}

	var body geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse geoip response: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("geoip lookup failed: %s", body.Message)
	}

	return &GeoLocation{
		Country: body.Country,
		Region:  body.RegionName,
		City:    body.City,
	}, nil
}

// MockGeoIP is a GeoIP stub for tests.
type MockGeoIP struct {
	LookupFunc func(ctx context.Context, ip string) (*GeoLocation, error)
	Lookups    []string
}

var _ GeoIP = (*MockGeoIP)(nil)

func (m *MockGeoIP) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	m.Lookups = append(m.Lookups, ip)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, ip)
	}
	return &GeoLocation{Country: "Portugal", Region: "Lisbon", City: "Lisbon"}, nil
}
