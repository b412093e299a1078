// Package bcch is a client for the Banco Central de Chile SieteRestWS API.
// It fetches raw time series and normalizes them into indicator.Series.
package bcch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/econlab/indicadores/indicator"
)

// DefaultBaseURL is the production SieteRestWS endpoint.
const DefaultBaseURL = "https://si3.bcentral.cl/SieteRestWS/SieteRestWS.ashx"

// wireDateLayout is how the provider emits observation dates.
const wireDateLayout = "02-01-2006"

// Credentials authenticate against the API as plain query parameters.
type Credentials struct {
	User     string
	Password string
}

func (c Credentials) empty() bool { return c.User == "" || c.Password == "" }

// Client calls the SieteRestWS endpoint. The zero timeout of the default
// HTTP client applies unless one is injected.
type Client struct {
	http    *http.Client
	baseURL string
	creds   Credentials
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client used for all requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at a different endpoint (tests, proxies).
func WithBaseURL(raw string) Option {
	return func(c *Client) { c.baseURL = raw }
}

// WithLogger attaches a logger for skipped-observation diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client. Credentials are validated per request, not here, so
// a misconfigured deployment fails loudly on first use instead of at boot.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		baseURL: DefaultBaseURL,
		creds:   creds,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope is the SieteRestWS response wrapper. Codigo 0 means success.
type envelope struct {
	Codigo      int    `json:"Codigo"`
	Descripcion string `json:"Descripcion"`
	Series      struct {
		Obs []rawObservation `json:"Obs"`
	} `json:"Series"`
}

type rawObservation struct {
	IndexDateString string `json:"indexDateString"`
	Value           string `json:"value"`
}

// FetchSeries implements indicator.Fetcher. Dates are YYYY-MM-DD strings.
//
// Observations come back in provider order; sorting is the caller's
// concern. A malformed observation is logged and skipped rather than
// failing the whole fetch. An empty series is a legitimate result here;
// only the repository treats it as an error.
func (c *Client) FetchSeries(ctx context.Context, seriesID, firstDate, lastDate string) (indicator.Series, error) {
	if c.creds.empty() {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("user", c.creds.User)
	params.Set("pass", c.creds.Password)
	params.Set("function", "GetSeries")
	params.Set("timeseries", seriesID)
	params.Set("firstdate", firstDate)
	params.Set("lastdate", lastDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bcch: request %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("bcch: decode response for %s: %w", seriesID, err)
	}
	if env.Codigo != 0 {
		return nil, &UpstreamError{Code: env.Codigo, Message: env.Descripcion}
	}

	series := make(indicator.Series, 0, len(env.Series.Obs))
	for _, raw := range env.Series.Obs {
		obs, err := normalize(raw)
		if err != nil {
			c.log.Warn().
				Str("series", seriesID).
				Str("date", raw.IndexDateString).
				Str("value", raw.Value).
				Err(err).
				Msg("skipping malformed observation")
			continue
		}
		series = append(series, obs)
	}
	return series, nil
}

// normalize converts one wire observation (DD-MM-YYYY date, numeric string
// value) into the midday-anchored Observation form.
func normalize(raw rawObservation) (indicator.Observation, error) {
	day, err := time.Parse(wireDateLayout, raw.IndexDateString)
	if err != nil {
		return indicator.Observation{}, fmt.Errorf("parse date: %w", err)
	}

	value, err := strconv.ParseFloat(raw.Value, 64)
	if err != nil {
		return indicator.Observation{}, fmt.Errorf("parse value: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return indicator.Observation{}, fmt.Errorf("non-finite value %q", raw.Value)
	}

	return indicator.Observation{
		Date:  indicator.Day(day.Year(), day.Month(), day.Day()),
		Value: value,
	}, nil
}
