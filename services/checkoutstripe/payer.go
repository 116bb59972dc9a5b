package checkoutstripe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/skysightdata/checkout/lib/myconfig"
	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/myhttpclient"
	"github.com/skysightdata/checkout/lib/mylog"
)

const (
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = 30 * time.Second
)

//go:generate mockgen -source=payer.go -package checkoutstripe -destination payer_mock.go Payer
type Payer interface {
	UseAPIKey(key string) error
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
}

type PayerConfig struct {
	APIURL            string
	Timeout           time.Duration
	MaxNetworkRetries int64
	BreakerThreshold  uint32
	BreakerCooldown   time.Duration
}

type stripePayer struct {
	config  PayerConfig
	logger  mylog.Logger
	client  *client.API
	breaker *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

func NewPayer(config PayerConfig) Payer {
	if config.BreakerThreshold == 0 {
		config.BreakerThreshold = defaultBreakerThreshold
	}
	if config.BreakerCooldown == 0 {
		config.BreakerCooldown = defaultBreakerCooldown
	}

	return &stripePayer{
		config: config,
		logger: mylog.New("stripe"),
		breaker: gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
			Name:    "stripe-checkout",
			Timeout: config.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= config.BreakerThreshold
			},
			// Rejected requests say nothing about the health of the provider
			IsSuccessful: func(err error) bool {
				return err == nil || myerrors.GetHTTPStatus(err) < http.StatusInternalServerError
			},
		}),
	}
}

// UseAPIKey builds the client that is used for all subsequent calls. It must be called once, before the first
// checkout session is created.
func (p *stripePayer) UseAPIKey(apiKey string) error {
	err := myconfig.ValidateSecretKey(apiKey)
	if err != nil {
		return myerrors.NewConfigurationError(err)
	}

	p.client = client.New(apiKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, p.backendConfig()),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, p.backendConfig()),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, p.backendConfig()),
	})

	return nil
}

// backendConfig returns a fresh config on every call: the sdk fills in defaults on the struct it receives.
func (p *stripePayer) backendConfig() *stripe.BackendConfig {
	config := &stripe.BackendConfig{
		HTTPClient:        myhttpclient.New(p.config.Timeout, p.logger),
		MaxNetworkRetries: stripe.Int64(p.config.MaxNetworkRetries),
		EnableTelemetry:   stripe.Bool(false),
		// Errors are logged by our own components, without provider messages
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if p.config.APIURL != "" {
		config.URL = stripe.String(p.config.APIURL)
	}
	return config
}

func (p *stripePayer) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	if p.client == nil {
		return stripe.CheckoutSession{}, myerrors.NewConfigurationError(fmt.Errorf("stripe client used before an api key was set"))
	}

	params.Context = ctx

	session, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		session, err := p.client.CheckoutSessions.New(&params)
		if err != nil {
			return nil, classifyError(ctx, err)
		}
		return session, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return stripe.CheckoutSession{}, myerrors.NewUnavailableError("payment provider temporarily unavailable",
				fmt.Errorf("error creating stripe session: %w", err))
		}
		return stripe.CheckoutSession{}, err
	}

	return *session, nil
}

// classifyError maps a failed session creation onto the status we respond with.
func classifyError(ctx context.Context, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		status := stripeErr.HTTPStatusCode
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			// The message would echo part of the key
			return myerrors.NewConfigurationError(fmt.Errorf("stripe refused credentials (status %d, request-id %s)",
				status, stripeErr.RequestID))
		case status == http.StatusTooManyRequests:
			return myerrors.NewUnavailableError("payment provider is busy, try again later",
				fmt.Errorf("stripe rate limited session creation (request-id %s)", stripeErr.RequestID))
		case status >= http.StatusInternalServerError:
			return myerrors.NewBadGatewayError("payment provider failed", describe(stripeErr))
		case status >= http.StatusBadRequest:
			return myerrors.NewProviderRejectedError(describe(stripeErr))
		default:
			return myerrors.NewBadGatewayError("payment provider failed", describe(stripeErr))
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return myerrors.NewGatewayTimeoutError(fmt.Errorf("error creating stripe session: %w", err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return myerrors.NewGatewayTimeoutError(fmt.Errorf("error creating stripe session: %w", err))
	}

	return myerrors.NewBadGatewayError("payment provider unreachable", fmt.Errorf("error creating stripe session: %w", err))
}

func describe(stripeErr *stripe.Error) error {
	return fmt.Errorf("error creating stripe session (status %d, type %s, code %s, param %s, request-id %s): %s",
		stripeErr.HTTPStatusCode, stripeErr.Type, stripeErr.Code, stripeErr.Param, stripeErr.RequestID, stripeErr.Msg)
}
