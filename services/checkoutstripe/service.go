package checkoutstripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"

	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/mylog"
	"github.com/skysightdata/checkout/lib/mypublisher"
	"github.com/skysightdata/checkout/lib/mystore"
	"github.com/skysightdata/checkout/lib/mytime"
	"github.com/skysightdata/checkout/lib/myuuid"
	"github.com/skysightdata/checkout/services/checkoutevents"
)

type service struct {
	logger    mylog.Logger
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	payer     Payer
	records   mystore.Store[IdempotencyRecord]
	publisher mypublisher.Publisher
	settings  Settings
	configErr error
}

func newService(apiKey string, settings Settings, logger mylog.Logger, nower mytime.Nower, uuider myuuid.UUIDer, payer Payer,
	records mystore.Store[IdempotencyRecord], publisher mypublisher.Publisher) *service {
	s := &service{
		logger:    logger,
		nower:     nower,
		uuider:    uuider,
		payer:     payer,
		records:   records,
		publisher: publisher,
		settings:  settings,
	}

	err := payer.UseAPIKey(apiKey)
	if err != nil {
		s.configErr = myerrors.NewConfigurationError(fmt.Errorf("error initializing payer: %w", err))
		logger.Log(context.Background(), "", mylog.SeverityError, "Checkout disabled: %s", err)
	}

	return s
}

// startCheckout creates a checkout session for a single product on the Stripe platform and returns its id
func (s *service) startCheckout(c context.Context, req checkoutRequest) (string, error) {
	if s.configErr != nil {
		return "", s.configErr
	}

	product, err := lookupProduct(req.ProductUID)
	if err != nil {
		return "", err
	}

	idempotencyKey := req.IdempotencyKey
	callerSuppliedKey := idempotencyKey != ""
	if callerSuppliedKey {
		record, found, err := s.records.Get(c, idempotencyKey)
		if err != nil {
			return "", myerrors.NewInternalError(fmt.Errorf("error fetching idempotency record %s: %s", idempotencyKey, err))
		}
		if found {
			if record.ProductUID != product.UID {
				return "", myerrors.NewInvalidInputErrorf("idempotency key %s was already used for another product", idempotencyKey)
			}
			s.logger.Log(c, record.SessionID, mylog.SeverityInfo, "Replay checkout session %s for idempotency key %s", record.SessionID, idempotencyKey)
			return record.SessionID, nil
		}
	} else {
		idempotencyKey = "checkout_" + s.uuider.Create()
	}

	s.logger.Log(c, idempotencyKey, mylog.SeverityInfo, "Start checkout for product %s (%s)", product.UID, product.Price())

	session, err := s.createSession(c, newCheckoutSessionParams(product, s.settings, idempotencyKey))
	if err != nil {
		return "", err
	}

	if callerSuppliedKey {
		err = s.records.Put(c, idempotencyKey, IdempotencyRecord{
			Key:        idempotencyKey,
			SessionID:  session.ID,
			ProductUID: product.UID,
			CreatedAt:  s.nower.Now(),
		})
		if err != nil {
			// Stripe replays the same session for this key
			s.logger.Log(c, session.ID, mylog.SeverityWarn, "Error storing idempotency record %s: %s", idempotencyKey, err)
		}
	}

	err = s.publishStarted(c, product, session.ID, idempotencyKey)
	if err != nil {
		// Not fatal: the session exists at stripe
		s.logger.Log(c, session.ID, mylog.SeverityWarn, "Error publishing checkout started: %s", err)
	}

	s.logger.Log(c, session.ID, mylog.SeverityInfo, "Created checkout session %s for product %s", session.ID, product.UID)

	return session.ID, nil
}

func (s *service) createSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(c, s.settings.Timeout)
	defer cancel()

	session, err := s.payer.CreateCheckoutSession(ctx, params)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if session.ID == "" {
		return stripe.CheckoutSession{}, myerrors.NewBadGatewayError("payment provider failed", fmt.Errorf("stripe returned a session without id"))
	}

	return session, nil
}

func (s *service) publishStarted(c context.Context, product Product, sessionID string, idempotencyKey string) error {
	ctx, cancel := context.WithTimeout(c, s.settings.Timeout)
	defer cancel()

	return s.publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
		ProviderName:   providerName,
		SessionUID:     sessionID,
		ProductUID:     product.UID,
		AmountInCents:  product.UnitAmount,
		Currency:       product.Currency,
		IdempotencyKey: idempotencyKey,
	})
}

func newCheckoutSessionParams(product Product, settings Settings, idempotencyKey string) stripe.CheckoutSessionParams {
	params := stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(product.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(product.Name),
					},
					UnitAmount: stripe.Int64(product.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(settings.SuccessURL),
		CancelURL:  stripe.String(settings.CancelURL),
	}
	params.SetIdempotencyKey(idempotencyKey)
	params.AddMetadata("productUid", product.UID)

	return params
}
