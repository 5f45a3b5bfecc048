package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/rankcraft/backend/cache"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/stats"
)

const (
	DefaultSuggestURL = "https://suggestqueries.google.com/complete/search"
	MinQueryLength    = 2

	userAgent      = "Mozilla/5.0"
	cacheKeyPrefix = "keywords:suggest:"
	maxBodySize    = 1 << 20
)

var ErrQueryTooShort = fmt.Errorf("query must be at least %d characters", MinQueryLength)

// Suggester scrapes search-engine autocomplete suggestions for a query
type Suggester struct {
	endpoint string
	client   *retryablehttp.Client
	cache    cache.Store
	cacheTTL time.Duration
	usage    *stats.Storage
}

// NewSuggester creates a Suggester. store and usage may be nil.
func NewSuggester(endpoint string, store cache.Store, cacheTTL time.Duration, usage *stats.Storage) *Suggester {
	if endpoint == "" {
		endpoint = DefaultSuggestURL
	}

	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second

	return &Suggester{
		endpoint: endpoint,
		client:   client,
		cache:    store,
		cacheTTL: cacheTTL,
		usage:    usage,
	}
}

func (s *Suggester) record(hit bool) {
	if s.usage != nil {
		s.usage.RecordSuggestion(hit)
	}
}

// Suggest returns suggestions for query, from cache when possible
func (s *Suggester) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return nil, ErrQueryTooShort
	}

	key := cacheKeyPrefix + strings.ToLower(query)
	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			var suggestions []string
			if err := json.Unmarshal(data, &suggestions); err == nil {
				s.record(true)
				return suggestions, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.Log.WithError(err).Warn("suggestion cache lookup failed")
		}
	}
	s.record(false)

	suggestions, err := s.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(suggestions); err == nil {
			if err := s.cache.Put(ctx, key, data, s.cacheTTL); err != nil {
				logging.Log.WithError(err).Warn("could not cache suggestions")
			}
		}
	}
	return suggestions, nil
}

func (s *Suggester) fetch(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("q", query)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch suggestions: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}

	suggestions := ParseSuggestions(body)
	logging.Log.WithField("query", query).WithField("count", len(suggestions)).Debug("fetched keyword suggestions")
	return suggestions, nil
}

// ParseSuggestions reads the suggestion list at index 1 of the response
// array, e.g. ["seo", ["seo tools", "seo meaning"]]. Anything else yields
// an empty list.
func ParseSuggestions(body []byte) []string {
	suggestions := []string{}
	if !gjson.ValidBytes(body) {
		return suggestions
	}

	list := gjson.GetBytes(body, "1")
	if !list.IsArray() {
		return suggestions
	}
	list.ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String && value.Str != "" {
			suggestions = append(suggestions, value.Str)
		}
		return true
	})
	return suggestions
}
