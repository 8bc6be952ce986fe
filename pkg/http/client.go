package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc wraps the round tripper of a connector client
type TransportFunc func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	dialTimeout           time.Duration
	keepAlive             time.Duration
	requestTimeout        time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConnsPerHost   int
	wrappers              []TransportFunc
}

type HttpOpts func(*clientConfig)

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.dialTimeout = timeout }
}

// WithRequestTimeout bounds a whole request including reading the body
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.requestTimeout = timeout }
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *clientConfig) { c.keepAlive = keepAlive }
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.responseHeaderTimeout = timeout }
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) { c.idleConnTimeout = timeout }
}

func WithMaxIdleConnsPerHost(n int) HttpOpts {
	return func(c *clientConfig) { c.maxIdleConnsPerHost = n }
}

// WithTransport adds a round tripper wrapper. Wrappers added later run first.
func WithTransport(wrap TransportFunc) HttpOpts {
	return func(c *clientConfig) { c.wrappers = append(c.wrappers, wrap) }
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := clientConfig{
		dialTimeout:           5 * time.Second,
		keepAlive:             90 * time.Second,
		requestTimeout:        30 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConnsPerHost:   10,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// The CBAM backend is a single host, so the clone keeps proxy and HTTP/2 defaults
	// and only tunes dialing and pooling.
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{
		Timeout:   cfg.dialTimeout,
		KeepAlive: cfg.keepAlive,
	}).DialContext
	base.ResponseHeaderTimeout = cfg.responseHeaderTimeout
	base.IdleConnTimeout = cfg.idleConnTimeout
	base.MaxIdleConnsPerHost = cfg.maxIdleConnsPerHost

	var rt http.RoundTripper = base
	for _, wrap := range cfg.wrappers {
		rt = wrap(rt)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: rt,
	}
}
