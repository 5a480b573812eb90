package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/zerobet/api/pkg/config"
)

// defaults applied when the caller omits odds query parameters.
const (
	defaultRegions    = "uk,eu"
	defaultMarkets    = "h2h,spreads,totals"
	defaultOddsFormat = "decimal"
)

// UpstreamError carries a failure reported by the odds provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("odds provider request failed with status %d", e.Status)
	}
	return e.Message
}

// Params are the caller-supplied odds query parameters.
type Params struct {
	Regions    string
	Markets    string
	OddsFormat string
}

func (p Params) withDefaults() Params {
	if strings.TrimSpace(p.Regions) == "" {
		p.Regions = defaultRegions
	}
	if strings.TrimSpace(p.Markets) == "" {
		p.Markets = defaultMarkets
	}
	if strings.TrimSpace(p.OddsFormat) == "" {
		p.OddsFormat = defaultOddsFormat
	}
	return p
}

// Service proxies the third-party odds provider. Responses are forwarded
// verbatim; an optional cache absorbs repeated reads for a short window.
type Service struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// New constructs a Service. A nil cache disables caching.
func New(cfg config.APIConfig, cache Cache, logger *slog.Logger) Service {
	return Service{
		baseURL:  strings.TrimRight(cfg.OddsBaseURL, "/"),
		apiKey:   cfg.OddsAPIKey,
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache,
		cacheTTL: cfg.OddsCacheTTL,
		logger:   logger,
	}
}

// ListSports returns the provider's sport catalogue.
func (s Service) ListSports(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/sports", url.Values{})
}

// ListOdds returns current odds for a sport, applying the documented defaults
// for omitted parameters.
func (s Service) ListOdds(ctx context.Context, sport string, params Params) (json.RawMessage, error) {
	params = params.withDefaults()
	query := url.Values{}
	query.Set("regions", params.Regions)
	query.Set("markets", params.Markets)
	query.Set("oddsFormat", params.OddsFormat)
	return s.fetch(ctx, "/sports/"+url.PathEscape(sport)+"/odds", query)
}

func (s Service) fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	// The cache key deliberately excludes the API key.
	cacheKey := path
	if encoded := query.Encode(); encoded != "" {
		cacheKey += "?" + encoded
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return json.RawMessage(cached), nil
		}
	}

	query.Set("apiKey", s.apiKey)
	endpoint := s.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create odds request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode/100 != 2 {
		s.logger.Warn("odds provider returned error", "path", path, "status", resp.StatusCode)
		return nil, &UpstreamError{Status: resp.StatusCode, Message: extractMessage(body)}
	}

	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(ctx, cacheKey, body, s.cacheTTL)
	}
	return json.RawMessage(body), nil
}

// extractMessage pulls the provider's error message out of a failure body,
// falling back to a snippet of the raw payload.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 240 {
		snippet = snippet[:240]
	}
	return snippet
}
