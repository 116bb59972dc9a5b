package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context this (used by mylog)
type CtxTraceContext struct{}

// ContextFromHTTPRequest returns a context that carries the cloud trace of the request. It is not cancelled when
// the caller disconnects, so callers must bound it with their own timeout.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	return context.WithValue(context.Background(), CtxTraceContext{}, traceFromRequest(r))
}

// TraceFromContext returns the trace stored by ContextFromHTTPRequest or an empty string.
func TraceFromContext(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}

func traceFromRequest(r *http.Request) string {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		return fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}
	return ""
}
