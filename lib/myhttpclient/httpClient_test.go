package myhttpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysightdata/checkout/lib/mylog"
)

type recordingLogger struct {
	sync.Mutex
	lines []string
}

func (l *recordingLogger) Log(c context.Context, traceLabel string, severity mylog.Severity, format string, a ...any) {
	l.Lock()
	defer l.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, a...))
}

func TestLoggingClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Request-Id", "req_123")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	t.Run("Logs call without headers", func(t *testing.T) {
		logger := &recordingLogger{}
		client := New(time.Second, logger)

		request, err := http.NewRequest(http.MethodPost, server.URL+"/v1/checkout/sessions", strings.NewReader("mode=payment"))
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer sk_test_secret")

		response, err := client.Do(request)
		require.NoError(t, err)
		defer response.Body.Close()

		assert.Equal(t, http.StatusCreated, response.StatusCode)
		require.Len(t, logger.lines, 1)
		assert.Contains(t, logger.lines[0], "POST")
		assert.Contains(t, logger.lines[0], "/v1/checkout/sessions: 201")
		assert.NotContains(t, logger.lines[0], "sk_test_secret")
		assert.NotContains(t, logger.lines[0], "mode=payment")
	})

	t.Run("Logs failure", func(t *testing.T) {
		logger := &recordingLogger{}
		client := New(time.Second, logger)

		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		_, err := client.Get(closed.URL + "/v1/checkout/sessions")

		assert.Error(t, err)
		require.Len(t, logger.lines, 1)
		assert.Contains(t, logger.lines[0], "failed")
	})
}
