package checkoutstripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/skysightdata/checkout/lib/mycontext"
	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/myhttp"
	"github.com/skysightdata/checkout/lib/mylog"
	"github.com/skysightdata/checkout/lib/mypublisher"
	"github.com/skysightdata/checkout/lib/mystore"
	"github.com/skysightdata/checkout/lib/mytime"
	"github.com/skysightdata/checkout/lib/myuuid"
	"github.com/skysightdata/checkout/services/checkoutevents"
)

const maxRequestBodySize = 4096

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(apiKey string, settings Settings, payer Payer, nower mytime.Nower, uuider myuuid.UUIDer,
	records mystore.Store[IdempotencyRecord], publisher mypublisher.Publisher) *webService {
	logger := mylog.New("checkoutstripe")

	return &webService{
		logger:  logger,
		service: newService(apiKey, settings, logger, nower, uuider, payer, records, publisher),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout", s.startCheckoutPage()).Methods("POST")

	err := s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

// Ready reports whether checkout sessions can be created at all.
func (s *webService) Ready() error {
	return s.service.configErr
}

// startCheckoutPage starts a checkout session on the Stripe platform
func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := parseRequest(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		sessionID, err := s.service.startCheckout(c, req)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, CheckoutSessionResponse{
			ID: sessionID,
		})
	}
}

// parseRequest accepts an empty body, a form or a json object. Only the product can be chosen.
func parseRequest(w http.ResponseWriter, r *http.Request) (checkoutRequest, error) {
	req := checkoutRequest{}

	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	}

	values := r.URL.Query()
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		err := r.ParseForm()
		if err != nil {
			return req, myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err))
		}
		values = r.Form
	case "application/json":
		if r.Body != nil {
			err := json.NewDecoder(r.Body).Decode(&req)
			if err != nil && !errors.Is(err, io.EOF) {
				return req, myerrors.NewInvalidInputError(fmt.Errorf("error parsing json body: %s", err))
			}
		}
	}

	if req.ProductUID == "" {
		err := formcodec.NewDecoder().Decode(&req, values)
		if err != nil {
			return req, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
		}
	}

	req.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		return req, myerrors.NewInvalidInputErrorf("%s header exceeds %d characters", IdempotencyKeyHeader, maxIdempotencyKeyLength)
	}

	return req, nil
}
