package myconfig

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultProviderTimeout = 10 * time.Second
	defaultSuccessURL      = "https://skysightdata.com/success.html"
	defaultCancelURL       = "https://skysightdata.com"
	defaultAllowedOrigin   = "https://skysightdata.com"
)

type Config struct {
	Port               string
	StripeSecretKey    string
	StripeAPIURL       string
	MaxNetworkRetries  int64
	ProviderTimeout    time.Duration
	SuccessURL         string
	CancelURL          string
	AllowedOrigins     []string
	GoogleCloudProject string
}

// Load reads the configuration from the environment. A .env file in the working directory is read first when
// present; variables that are already set take precedence over it.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	secretKey, err := secretFromEnv("STRIPE_SECRET_KEY")
	if err != nil {
		return Config{}, err
	}

	timeout := defaultProviderTimeout
	if value := os.Getenv("CHECKOUT_PROVIDER_TIMEOUT"); value != "" {
		timeout, err = time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHECKOUT_PROVIDER_TIMEOUT '%s': %s", value, err)
		}
	}

	var retries int64
	if value := os.Getenv("STRIPE_MAX_NETWORK_RETRIES"); value != "" {
		retries, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STRIPE_MAX_NETWORK_RETRIES '%s': %s", value, err)
		}
	}

	return Config{
		Port:               getenvOrDefault("PORT", defaultPort),
		StripeSecretKey:    secretKey,
		StripeAPIURL:       os.Getenv("STRIPE_API_URL"),
		MaxNetworkRetries:  retries,
		ProviderTimeout:    timeout,
		SuccessURL:         getenvOrDefault("CHECKOUT_SUCCESS_URL", defaultSuccessURL),
		CancelURL:          getenvOrDefault("CHECKOUT_CANCEL_URL", defaultCancelURL),
		AllowedOrigins:     splitList(getenvOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigin)),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}, nil
}

// Validate fails when the process cannot serve checkouts with this configuration. Messages never contain the
// secret itself.
func (c Config) Validate() error {
	err := ValidateSecretKey(c.StripeSecretKey)
	if err != nil {
		return err
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.ProviderTimeout)
	}
	if c.MaxNetworkRetries < 0 {
		return fmt.Errorf("max network retries must not be negative, got %d", c.MaxNetworkRetries)
	}
	for name, value := range map[string]string{"success url": c.SuccessURL, "cancel url": c.CancelURL} {
		err = validateAbsoluteURL(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", name, err)
		}
	}
	if c.StripeAPIURL != "" {
		err = validateAbsoluteURL(c.StripeAPIURL)
		if err != nil {
			return fmt.Errorf("invalid stripe api url: %s", err)
		}
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

// ValidateSecretKey accepts secret (sk_) and restricted (rk_) stripe keys.
func ValidateSecretKey(key string) error {
	if key == "" {
		return fmt.Errorf("stripe secret key is missing: set STRIPE_SECRET_KEY or STRIPE_SECRET_KEY_FILE")
	}
	if !strings.HasPrefix(key, "sk_") && !strings.HasPrefix(key, "rk_") {
		return fmt.Errorf("stripe secret key has an unexpected format: expected prefix sk_ or rk_")
	}
	return nil
}

// secretFromEnv reads a secret from the variable itself or from the file named by <name>_FILE, which is how
// mounted secrets are exposed.
func secretFromEnv(name string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value, nil
	}

	filename := os.Getenv(name + "_FILE")
	if filename == "" {
		return "", nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("error reading %s_FILE: %s", name, err)
	}
	return strings.TrimSpace(string(content)), nil
}

func validateAbsoluteURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("'%s' is not an absolute http(s) url", value)
	}
	return nil
}

func getenvOrDefault(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	result := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
