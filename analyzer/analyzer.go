package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rankcraft/backend/cache"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/stats"
)

const (
	DefaultCacheTTL = time.Minute
	cacheKeyPrefix  = "seo:report:"
	fetchTimeout    = 15 * time.Second
	userAgent       = "SEOAnalyzer/1.0"
)

// Analyzer wraps FullSEOAnalysis with a report cache and page fetching
type Analyzer struct {
	client       *http.Client
	cache        cache.Store
	cacheTTL     time.Duration
	usage        *stats.Storage
	allowPrivate atomic.Bool
}

// New creates an Analyzer. store and usage may be nil. Page fetches refuse
// loopback, private and link-local destinations unless AllowPrivateNetworks
// is called.
func New(store cache.Store, usage *stats.Storage, cacheTTL time.Duration) *Analyzer {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	a := &Analyzer{
		cache:    store,
		cacheTTL: cacheTTL,
		usage:    usage,
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   a.controlDial,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	a.client = &http.Client{
		Timeout:   fetchTimeout,
		Transport: transport,
	}
	return a
}

// AllowPrivateNetworks lets FetchPage reach internal addresses
func (a *Analyzer) AllowPrivateNetworks() {
	a.allowPrivate.Store(true)
}

// generateCacheKey hashes all four inputs; the separator keeps
// ("ab", "c") and ("a", "bc") apart
func generateCacheKey(in AnalysisInput) string {
	h := sha256.New()
	for _, part := range []string{in.Title, in.MetaDescription, in.Content, in.Keyword} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (a *Analyzer) recordCache(hit bool) {
	if a.usage != nil {
		a.usage.RecordAnalysis(hit)
	}
}

// Analyze returns the cached report for identical input or computes it.
// Cache failures are logged; the analysis itself cannot fail.
func (a *Analyzer) Analyze(ctx context.Context, in AnalysisInput) SEOReport {
	if a.cache == nil {
		return in.Run()
	}

	key := generateCacheKey(in)
	if data, err := a.cache.Get(ctx, key); err == nil {
		var report SEOReport
		if err := json.Unmarshal(data, &report); err == nil {
			a.recordCache(true)
			return report
		}
		logging.Log.WithField("key", key).Warn("discarding undecodable cached report")
	} else if !errors.Is(err, cache.ErrMiss) {
		logging.Log.WithError(err).Warn("report cache lookup failed")
	}

	a.recordCache(false)
	report := in.Run()

	data, err := json.Marshal(report)
	if err == nil {
		err = a.cache.Put(ctx, key, data, a.cacheTTL)
	}
	if err != nil {
		logging.Log.WithError(err).Warn("could not cache report")
	}

	return report
}

// Shutdown releases the HTTP transport's idle connections
func (a *Analyzer) Shutdown() {
	if a == nil || a.client == nil {
		return
	}
	a.client.CloseIdleConnections()
}
