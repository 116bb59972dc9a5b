package myhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	writer := NewWriter(mylog.New("myhttp"))

	t.Run("Write success", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.Write(context.TODO(), response, http.StatusOK, struct {
			ID string `json:"id"`
		}{ID: "cs_test_abc123"})

		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":"cs_test_abc123"}`, response.Body.String())
	})

	t.Run("Write error only exposes public message", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(context.TODO(), response, 3, myerrors.NewProviderRejectedError(fmt.Errorf("No such price: sk_test_secret")))

		assert.Equal(t, 400, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"ErrorCode":3,"Message":"payment provider rejected the checkout request"}`, response.Body.String())
		assert.NotContains(t, response.Body.String(), "sk_test_secret")
	})

	t.Run("Write plain error", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(context.TODO(), response, 4, fmt.Errorf("dial tcp: connection refused"))

		assert.Equal(t, 500, response.Code)
		assert.JSONEq(t, `{"ErrorCode":4,"Message":"Internal Server Error"}`, response.Body.String())
	})
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := WithRecovery(WithCORS([]string{"https://skysightdata.com"}, []string{"POST"}, []string{"Content-Type", "Idempotency-Key"})(ok))

	t.Run("Allowed origin", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)
		request.Header.Set("Origin", "https://skysightdata.com")
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "https://skysightdata.com", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Other origin", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)
		request.Header.Set("Origin", "https://evil.example.com")
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, "", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodOptions, "/checkout", nil)
		assert.NoError(t, err)
		request.Header.Set("Origin", "https://skysightdata.com")
		request.Header.Set("Access-Control-Request-Method", "POST")
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "https://skysightdata.com", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		panicking := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		request, err := http.NewRequest(http.MethodPost, "/checkout", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		panicking.ServeHTTP(response, request)

		assert.Equal(t, 500, response.Code)
	})
}
