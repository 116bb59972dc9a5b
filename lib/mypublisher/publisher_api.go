package mypublisher

import (
	"context"

	"github.com/skysightdata/checkout/lib/myevents"
)

//go:generate mockgen -source=publisher_api.go -package mypublisher -destination publisher_mock.go Publisher
type Publisher interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, event myevents.Event) error
}
