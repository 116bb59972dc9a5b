package myhttpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/skysightdata/checkout/lib/mylog"
)

// New returns a client that logs every outbound call. Headers and bodies are never logged because they carry
// credentials.
func New(timeout time.Duration, logger mylog.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			next:   http.DefaultTransport,
			logger: logger,
		},
	}
}

type loggingTransport struct {
	next   http.RoundTripper
	logger mylog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c := req.Context()
	if c == nil {
		c = context.Background()
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	took := time.Since(start).Round(time.Millisecond)
	if err != nil {
		t.logger.Log(c, "", mylog.SeverityWarn, "HTTP %s %s%s failed after %s: %s", req.Method, req.URL.Host, req.URL.Path, took, err)
		return nil, err
	}

	t.logger.Log(c, resp.Header.Get("Request-Id"), mylog.SeverityInfo, "HTTP %s %s%s: %d (%s)", req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, took)

	return resp, nil
}
