package catalog

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Transport stamps the User-Agent on catalog requests and logs each round
// trip. It never retries: a failed request is reported to the caller as is.
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
	Logger    *zap.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}
	r.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := base.RoundTrip(r)
	if t.Logger != nil {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("url", r.URL.Redacted()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			t.Logger.Debug("catalog request failed", append(fields, zap.Error(err))...)
		} else {
			t.Logger.Debug("catalog request", append(fields, zap.Int("status", resp.StatusCode))...)
		}
	}
	return resp, err
}

func newHTTPClient(userAgent string, timeout time.Duration, logger *zap.Logger) *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConnsPerHost:   8,
	}
	return &http.Client{
		Transport: &Transport{Base: base, UserAgent: userAgent, Logger: logger},
		Timeout:   timeout,
	}
}
