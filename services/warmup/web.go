package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skysightdata/checkout/lib/mycontext"
	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/myhttp"
	"github.com/skysightdata/checkout/lib/mylog"
	"github.com/skysightdata/checkout/lib/mystore"
	"github.com/skysightdata/checkout/services/checkoutstripe"
)

const probeUID = "warmup"

type webService struct {
	logger  mylog.Logger
	records mystore.Store[checkoutstripe.IdempotencyRecord]
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(records mystore.Store[checkoutstripe.IdempotencyRecord]) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger:  logger,
		records: records,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

// warmupPage opens the connection to the store before the first checkout arrives
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, _, err := s.records.Get(c, probeUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError("", fmt.Errorf("error probing store: %s", err)))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
