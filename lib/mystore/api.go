package mystore

import (
	"context"
	"os"
)

type Store[T any] interface {
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
}

// New returns a Cloud Datastore backed store when running on GCP and an in-memory store otherwise. The returned
// function releases the underlying client.
func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	return NewInMemoryStore[T](c)
}
