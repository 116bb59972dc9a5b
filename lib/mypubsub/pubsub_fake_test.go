package mypubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakePubSub(t *testing.T) {
	c := context.TODO()
	ps := NewFakePubSub()

	t.Run("Publish on unknown topic", func(t *testing.T) {
		err := ps.Publish(c, "checkout", "hello")
		assert.Error(t, err)
	})

	t.Run("Publish on created topic", func(t *testing.T) {
		assert.NoError(t, ps.CreateTopic(c, "checkout"))
		assert.NoError(t, ps.Publish(c, "checkout", "hello"))
		assert.NoError(t, ps.Publish(c, "checkout", "world"))

		assert.Equal(t, []string{"hello", "world"}, ps.Messages("checkout"))
	})

	t.Run("Create topic twice keeps messages", func(t *testing.T) {
		assert.NoError(t, ps.CreateTopic(c, "checkout"))

		assert.Len(t, ps.Messages("checkout"), 2)
	})
}
