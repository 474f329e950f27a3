// Package nominatim is a thin HTTP client for a Nominatim-compatible
// reverse-geocoding endpoint (OpenStreetMap or a self-hosted instance).
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ironwala/ironwala-api/internal/geo"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a reverse-geocoding client. baseURL may be empty to use
// the public OSM instance; userAgent is required by Nominatim's usage policy.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

var _ geo.Geocoder = (*Client)(nil)

// reverseResponse is the subset of the jsonv2 payload we care about.
type reverseResponse struct {
	Error   string `json:"error"`
	Name    string `json:"name"`
	Address struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

func (c *Client) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (geo.Components, bool, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return geo.Components{}, false, fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Components{}, false, fmt.Errorf("nominatim: reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	// Nominatim answers 404 when no feature exists at the coordinate.
	if resp.StatusCode == http.StatusNotFound {
		return geo.Components{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return geo.Components{}, false, fmt.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Components{}, false, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if body.Error != "" {
		return geo.Components{}, false, nil
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}

	comp := geo.Components{
		Name:        body.Name,
		HouseNumber: body.Address.HouseNumber,
		Street:      body.Address.Road,
		City:        city,
		State:       body.Address.State,
		Postcode:    body.Address.Postcode,
	}
	if comp == (geo.Components{}) {
		return geo.Components{}, false, nil
	}
	return comp, true, nil
}
