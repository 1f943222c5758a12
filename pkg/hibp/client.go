package hibp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"github.com/dgraph-io/ristretto"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.pwnedpasswords.com"

var (
	// ErrNetwork is returned when the range API could not be reached or answered with a non 2xx status.
	ErrNetwork = errors.New("range request failed")
	// ErrMalformedResponse is returned when the range API body is not a list of SUFFIX:COUNT records.
	ErrMalformedResponse = errors.New("malformed range response")
)

// Options for the RangeClient. Zero values fall back to sensible defaults,
// except CacheTTL where 0 disables caching.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
	// Padding asks the API to add fake records with a count of 0 so the response size does not
	// reveal the prefix.
	Padding   bool
	CacheTTL  time.Duration
	CacheSize int64
	// Proxy URL for the range API. If empty the HTTPS_PROXY/NO_PROXY environment is used.
	Proxy     string
}

// RangeClient queries the Pwned Passwords range API. Only hash prefixes are
// ever sent, and only prefixes are used as cache keys.
type RangeClient struct {
	baseURL   string
	userAgent string
	padding   bool
	cacheTTL  time.Duration
	cache     *ristretto.Cache
	http      *retryablehttp.Client
	stat      *status
}

func NewRangeClient(opts Options) (*RangeClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid range API url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pwd-analyzer/1.0"
	}

	httpClient, err := initHttpClient(opts)
	if err != nil {
		return nil, err
	}

	c := &RangeClient{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		padding:   opts.Padding,
		cacheTTL:  opts.CacheTTL,
		http:      httpClient,
		stat:      newStatus(),
	}

	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 4096
		}
		// Every range set costs 1, so MaxCost is the number of cached prefixes.
		c.cache, err = ristretto.NewCache(&ristretto.Config{
			NumCounters:        size * 10,
			MaxCost:            size,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

func initHttpClient(opts Options) (*retryablehttp.Client, error) {
	proxyCfg := httpproxy.FromEnvironment()
	if opts.Proxy != "" {
		if _, err := url.Parse(opts.Proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		proxyCfg.HTTPSProxy = opts.Proxy
		proxyCfg.HTTPProxy = opts.Proxy
	}
	proxyFunc := proxyCfg.ProxyFunc()

	client := retryablehttp.NewClient()
	// The default logger prints the request URL on every attempt.
	client.Logger = nil
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second

	client.HTTPClient = &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return proxyFunc(req.URL)
			},
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return client, nil
}

func (c *RangeClient) rangeHttpRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/range/%s", c.baseURL, prefix),
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

// Range returns every suffix that shares the given prefix. The prefix must be
// 5 uppercase hexadecimal characters.
func (c *RangeClient) Range(ctx context.Context, prefix string) (*RangeSet, error) {
	if !validPrefix(prefix) {
		return nil, fmt.Errorf("invalid range prefix %q", prefix)
	}

	c.stat.Lookup()
	if v, ok := c.cache.Get(prefix); ok {
		c.stat.CacheHit()
		return v.(*RangeSet), nil
	}

	body, err := c.downloadRange(ctx, prefix)
	if err != nil {
		c.stat.Failure()
		return nil, err
	}

	set, err := ParseRange(prefix, body)
	if err != nil {
		c.stat.Failure()
		return nil, err
	}

	c.cache.SetWithTTL(prefix, set, 1, c.cacheTTL)
	return set, nil
}

func (c *RangeClient) downloadRange(ctx context.Context, prefix string) ([]byte, error) {
	timer := time.Now()
	req, err := c.rangeHttpRequest(ctx, prefix)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: range %s returned status [%d] %s", ErrNetwork, prefix, res.StatusCode, res.Status)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading range %s: %w", ErrNetwork, prefix, err)
	}

	c.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	log.Debug().Str("range", prefix).Int("bytes", len(resBody)).Msg("range downloaded")
	return resBody, nil
}

// Stats returns a snapshot of the lookups made with this client.
func (c *RangeClient) Stats() Stats {
	return c.stat.Snapshot()
}

// LogSummary prints the lookup counters with the global logger.
func (c *RangeClient) LogSummary() {
	c.stat.Summary()
}

// Close releases the range cache.
func (c *RangeClient) Close() {
	c.cache.Close()
}
