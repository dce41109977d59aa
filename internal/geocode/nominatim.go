package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iReady/iReady-Backend/internal/metrics"
)

// CountrySuffix narrows free-form queries to the Philippines.
const CountrySuffix = ", Philippines"

// Nominatim wraps the OpenStreetMap search API. Calls are serialised
// through a shared limiter to stay inside the public usage policy.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatim creates a client for baseURL, e.g.
// https://nominatim.openstreetmap.org/search. The limit is one request per
// second.
func NewNominatim(baseURL, userAgent string) *Nominatim {
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns the first Nominatim match for q.
func (c *Nominatim) Search(ctx context.Context, q string) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("%w: waiting for geocoding slot: %v", ErrUpstream, err)
	}

	params := url.Values{}
	params.Set("q", q+CountrySuffix)
	params.Set("format", "json")
	params.Set("limit", "1")
	u := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.NominatimDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(places) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, q)
	}

	p := places[0]
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bad lat %q", ErrUpstream, p.Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bad lon %q", ErrUpstream, p.Lon)
	}

	return Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Source:      SourceNominatim,
	}, nil
}
