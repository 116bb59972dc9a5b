package mypubsub

import (
	"context"
	"fmt"
	"os"
	"sync"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = func(c context.Context) (PubSub, func(), error) {
			return NewFakePubSub(), func() {}, nil
		}
	}
}

// FakePubSub keeps published messages in memory, per topic.
type FakePubSub struct {
	sync.Mutex
	topics map[string][]string
}

func NewFakePubSub() *FakePubSub {
	return &FakePubSub{
		topics: map[string][]string{},
	}
}

func (ps *FakePubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	if _, found := ps.topics[topic]; !found {
		ps.topics[topic] = []string{}
	}
	return nil
}

func (ps *FakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	messages, found := ps.topics[topic]
	if !found {
		return fmt.Errorf("topic %s does not exist", topic)
	}
	ps.topics[topic] = append(messages, data)
	return nil
}

// Messages returns a copy of what was published on the topic.
func (ps *FakePubSub) Messages(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.topics[topic]...)
}
