// Package npdv fetches procurement exports from the NASA Procurement Data
// View CGI endpoint, one POST per (state, fiscal year).
package npdv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultURL is the production export endpoint.
const DefaultURL = "https://prod.nais.nasa.gov/cgibin/npdv/usmap05.cgi"

// nasaCenterCode selects "all centers" in the export form.
const nasaCenterCode = "53"

// ErrInvalidCombination signals that the requested (state, fiscal year)
// combination produced no data. Callers skip the batch and continue.
var ErrInvalidCombination = errors.New("no data for state/fiscal-year combination")

// Client posts export requests through a token-bucket rate limiter so a
// multi-year run does not hammer the endpoint.
type Client struct {
	httpc   *http.Client
	url     string
	limiter *rate.Limiter
}

type ClientConfig struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		httpc:   &http.Client{Timeout: cfg.Timeout},
		url:     cfg.URL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// FetchExport requests the raw export text for one state and fiscal year.
// A response containing "Invalid Entry" maps to ErrInvalidCombination.
func (c *Client) FetchExport(ctx context.Context, fiscalYear int, st State) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	form := buildForm(fiscalYear, st)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	slog.DebugContext(ctx, "Fetching export", "state", st.Code, "fiscal_year", fiscalYear)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch export for %s FY%d: %w", st.Code, fiscalYear, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch export for %s FY%d: unexpected status %s", st.Code, fiscalYear, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read export for %s FY%d: %w", st.Code, fiscalYear, err)
	}

	text := string(body)
	if strings.Contains(text, "Invalid Entry") {
		return "", fmt.Errorf("%s FY%d: %w", st.Code, fiscalYear, ErrInvalidCombination)
	}
	return text, nil
}

// buildForm assembles the export form payload. The endpoint wants the fiscal
// year twice ("FY 25" and "FY25") and the accounting window Oct 1 - Sep 30.
func buildForm(fiscalYear int, st State) url.Values {
	fy := fmt.Sprintf("FY %02d", fiscalYear%100)
	return url.Values{
		"bus_cat":      {"ALL"},
		"fy":           {fy},
		"recovery":     {"0"},
		"v_center":     {"ALL"},
		"v_database":   {strings.ReplaceAll(fy, " ", "")},
		"v_code":       {nasaCenterCode},
		"v_district":   {"ALL"},
		"v_start_date": {fmt.Sprintf("%d-10-01", fiscalYear-1)},
		"v_end_date":   {fmt.Sprintf("%d-09-30", fiscalYear)},
		"v_state":      {strings.ToUpper(st.Name)},
		"v_state2":     {st.Code},
		"action":       {"Export to Excel"},
	}
}
