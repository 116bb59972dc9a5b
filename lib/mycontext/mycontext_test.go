package mycontext

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFromHTTPRequest(t *testing.T) {
	t.Run("With trace header", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "skysight")

		request, err := http.NewRequest(http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b120001000/1;o=1")

		c := ContextFromHTTPRequest(request)

		assert.Equal(t, "projects/skysight/traces/105445aa7843bc8bf206b120001000", TraceFromContext(c))
	})

	t.Run("Without trace header", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)

		c := ContextFromHTTPRequest(request)

		assert.Equal(t, "", TraceFromContext(c))
	})

	t.Run("Not cancelled with the request", func(t *testing.T) {
		requestCtx, cancel := context.WithCancel(context.Background())
		request, err := http.NewRequestWithContext(requestCtx, http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)

		c := ContextFromHTTPRequest(request)
		cancel()

		assert.NoError(t, c.Err())
	})

	t.Run("Plain context", func(t *testing.T) {
		assert.Equal(t, "", TraceFromContext(context.TODO()))
	})
}
