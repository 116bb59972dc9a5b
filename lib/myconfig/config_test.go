package myconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"PORT", "STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY_FILE", "STRIPE_API_URL",
		"STRIPE_MAX_NETWORK_RETRIES", "CHECKOUT_PROVIDER_TIMEOUT", "CHECKOUT_SUCCESS_URL", "CHECKOUT_CANCEL_URL",
		"CORS_ALLOWED_ORIGINS", "GOOGLE_CLOUD_PROJECT"} {
		t.Setenv(name, "")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

		config, err := FromEnv()
		assert.NoError(t, err)
		assert.Equal(t, Config{
			Port:              "8080",
			StripeSecretKey:   "sk_test_123",
			MaxNetworkRetries: 0,
			ProviderTimeout:   10 * time.Second,
			SuccessURL:        "https://skysightdata.com/success.html",
			CancelURL:         "https://skysightdata.com",
			AllowedOrigins:    []string{"https://skysightdata.com"},
		}, config)
		assert.NoError(t, config.Validate())
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("STRIPE_SECRET_KEY", "rk_live_456")
		t.Setenv("STRIPE_API_URL", "http://localhost:12111")
		t.Setenv("STRIPE_MAX_NETWORK_RETRIES", "2")
		t.Setenv("CHECKOUT_PROVIDER_TIMEOUT", "3s")
		t.Setenv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/success")
		t.Setenv("CHECKOUT_CANCEL_URL", "http://localhost:3000")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://skysightdata.com")

		config, err := FromEnv()
		assert.NoError(t, err)
		assert.Equal(t, "9090", config.Port)
		assert.Equal(t, "rk_live_456", config.StripeSecretKey)
		assert.Equal(t, "http://localhost:12111", config.StripeAPIURL)
		assert.Equal(t, int64(2), config.MaxNetworkRetries)
		assert.Equal(t, 3*time.Second, config.ProviderTimeout)
		assert.Equal(t, []string{"http://localhost:3000", "https://skysightdata.com"}, config.AllowedOrigins)
		assert.NoError(t, config.Validate())
	})

	t.Run("Secret from file", func(t *testing.T) {
		clearEnv(t)
		filename := filepath.Join(t.TempDir(), "stripe-key")
		assert.NoError(t, os.WriteFile(filename, []byte("sk_test_from_file\n"), 0600))
		t.Setenv("STRIPE_SECRET_KEY_FILE", filename)

		config, err := FromEnv()
		assert.NoError(t, err)
		assert.Equal(t, "sk_test_from_file", config.StripeSecretKey)
	})

	t.Run("Missing secret file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STRIPE_SECRET_KEY_FILE", filepath.Join(t.TempDir(), "does-not-exist"))

		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("Invalid timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CHECKOUT_PROVIDER_TIMEOUT", "soon")

		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("Invalid retries", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STRIPE_MAX_NETWORK_RETRIES", "many")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:            "8080",
		StripeSecretKey: "sk_test_123",
		ProviderTimeout: time.Second,
		SuccessURL:      "https://skysightdata.com/success.html",
		CancelURL:       "https://skysightdata.com",
		AllowedOrigins:  []string{"*"},
	}

	testCases := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "Missing secret", modify: func(c *Config) { c.StripeSecretKey = "" }, errMsg: "stripe secret key is missing"},
		{name: "Publishable key", modify: func(c *Config) { c.StripeSecretKey = "pk_test_123" }, errMsg: "unexpected format"},
		{name: "Zero timeout", modify: func(c *Config) { c.ProviderTimeout = 0 }, errMsg: "timeout must be positive"},
		{name: "Negative retries", modify: func(c *Config) { c.MaxNetworkRetries = -1 }, errMsg: "must not be negative"},
		{name: "Relative success url", modify: func(c *Config) { c.SuccessURL = "/success.html" }, errMsg: "invalid success url"},
		{name: "Bad cancel url", modify: func(c *Config) { c.CancelURL = "ftp://skysightdata.com" }, errMsg: "invalid cancel url"},
		{name: "Bad api url", modify: func(c *Config) { c.StripeAPIURL = "localhost" }, errMsg: "invalid stripe api url"},
		{name: "No origins", modify: func(c *Config) { c.AllowedOrigins = nil }, errMsg: "allowed origin"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := valid
			tc.modify(&config)

			err := config.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
			assert.NotContains(t, err.Error(), "pk_test_123")
		})
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})
}
