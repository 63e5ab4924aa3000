package opensearch

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Client addresses one bundle of OpenSearch nodes and owns the Index objects
// created for it. It is not safe for concurrent use: the index cache is a
// plain map.
type Client struct {
	bundle         string
	configurations []ClientConfiguration
	indexes        map[string]IndexConfiguration
	transport      Transport
	timeout        time.Duration
	logger         *slog.Logger

	indexCache map[string]*Index
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for request tracing. Nil loggers are ignored.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds each request, including reading the response body.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithIndexConfigurations sets the per-index configuration blocks of the bundle.
func WithIndexConfigurations(indexes map[string]IndexConfiguration) ClientOption {
	return func(c *Client) { c.indexes = indexes }
}

// NewClient creates a client for the given bundle. Requests go to the first
// configuration through transport.
func NewClient(bundle string, configurations []ClientConfiguration, transport Transport, opts ...ClientOption) *Client {
	if bundle == "" {
		bundle = DefaultBundle
	}
	c := &Client{
		bundle:         bundle,
		configurations: configurations,
		transport:      transport,
		logger:         slog.New(slog.DiscardHandler),
		indexCache:     make(map[string]*Index),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bundle returns the bundle name the client was created for.
func (c *Client) Bundle() string { return c.bundle }

// Configurations returns the node configurations of the bundle.
func (c *Client) Configurations() []ClientConfiguration { return c.configurations }

// IndexConfiguration returns the configuration block stored under key, or nil.
func (c *Client) IndexConfiguration(key string) IndexConfiguration {
	if c.indexes == nil {
		return nil
	}
	return c.indexes[key]
}

// FindIndex returns the cached Index for name, creating it on first use.
func (c *Client) FindIndex(name string) (*Index, error) {
	if idx, ok := c.indexCache[name]; ok {
		return idx, nil
	}
	idx, err := NewIndex(name, c)
	if err != nil {
		return nil, err
	}
	c.indexCache[name] = idx
	return idx, nil
}

// Request performs a request against the first configured node. The path is
// appended to the node URI as is; an inline "?query" is honoured and args are
// appended to it.
func (c *Client) Request(ctx context.Context, method, path string, args url.Values, body []byte) (*Response, error) {
	if len(c.configurations) == 0 {
		return nil, ErrNoClientConfiguration
	}
	if c.transport == nil {
		return nil, errors.Join(ErrTransport, errors.New("no transport configured"))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := newRequest(ctx, method, c.configurations[0].URI(), path, args, body)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	start := time.Now()
	resp, err := c.transport.Perform(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "opensearch request failed",
			logger.Bundle(c.bundle),
			logger.Method(method),
			logger.Path(req.URL.Path),
			logger.Error(err),
		)
		return nil, errors.Join(ErrTransport, err)
	}

	r, err := readResponse(resp)
	c.logger.DebugContext(ctx, "opensearch request",
		logger.Bundle(c.bundle),
		logger.Method(method),
		logger.Path(req.URL.Path),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)
	return r, err
}
