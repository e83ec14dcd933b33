// Package geocoding resolves free-text addresses through a
// Nominatim-compatible search endpoint.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
)

// ErrRateLimited is returned on HTTP 429 so the job is retried later.
var ErrRateLimited = errors.New("geocoder rate limit exceeded")

// Options configures the geocoder. Zero Timeout means 10s; an empty
// UserAgent sends "freight".
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NominatimGeocoder implements ports.Geocoder.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimGeocoder requires an absolute base URL.
func NewNominatimGeocoder(opts Options) (*NominatimGeocoder, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid geocoder base url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "freight"
	}

	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(base.String(), "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns nil without error when the address is unknown.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*kernel.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("geocoder responded with status %d", resp.StatusCode)
	}

	var results []searchResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}

	coordinates, err := kernel.NewCoordinates(lat, lon)
	if err != nil {
		return nil, err
	}
	return &coordinates, nil
}
