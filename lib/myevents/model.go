package myevents

import "time"

// EventEnvelope is what travels over a topic: the event itself is carried as a json payload.
type EventEnvelope struct {
	UID           string
	CreatedAt     time.Time
	Topic         string
	AggregateUID  string
	EventTypeName string
	EventPayload  string
}

func (e EventEnvelope) String() string {
	return e.Topic + "." + e.EventTypeName + "." + e.AggregateUID
}

type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}
