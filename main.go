package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/skysightdata/checkout/lib/myconfig"
	"github.com/skysightdata/checkout/lib/myhttp"
	"github.com/skysightdata/checkout/lib/mypublisher"
	"github.com/skysightdata/checkout/lib/mypubsub"
	"github.com/skysightdata/checkout/lib/mystore"
	"github.com/skysightdata/checkout/lib/mytime"
	"github.com/skysightdata/checkout/lib/myuuid"
	"github.com/skysightdata/checkout/services/checkoutstripe"
	"github.com/skysightdata/checkout/services/warmup"
)

func main() {
	c := context.Background()

	config, err := myconfig.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}
	err = config.Validate()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	router := mux.NewRouter()

	records, recordsCleanup, err := mystore.New[checkoutstripe.IdempotencyRecord](c)
	if err != nil {
		log.Fatalf("Error creating idempotency store: %s", err)
	}
	defer recordsCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher := mypublisher.New(pubsub, mytime.RealNower{})

	{
		payer := checkoutstripe.NewPayer(checkoutstripe.PayerConfig{
			APIURL:            config.StripeAPIURL,
			Timeout:           config.ProviderTimeout,
			MaxNetworkRetries: config.MaxNetworkRetries,
		})
		settings := checkoutstripe.Settings{
			SuccessURL: config.SuccessURL,
			CancelURL:  config.CancelURL,
			Timeout:    config.ProviderTimeout,
		}
		checkoutService := checkoutstripe.NewWebService(config.StripeSecretKey, settings, payer, mytime.RealNower{},
			myuuid.RealUUIDer{}, records, publisher)
		err = checkoutService.RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering checkout endpoints: %s", err)
		}
		err = checkoutService.Ready()
		if err != nil {
			log.Fatalf("Error initializing checkout: %s", err)
		}
	}

	{
		warmupService := warmup.NewService(records)
		warmupService.RegisterEndpoints(c, router)
	}

	handler := myhttp.WithRecovery(myhttp.WithCORS(
		config.AllowedOrigins,
		[]string{http.MethodPost, http.MethodGet, http.MethodOptions},
		[]string{"Content-Type", checkoutstripe.IdempotencyKeyHeader},
	)(router))

	startWebServerBlocking(config.Port, handler)
}

func startWebServerBlocking(port string, handler http.Handler) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := server.ListenAndServe()
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
