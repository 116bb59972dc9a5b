package mystore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type Receipt struct {
	UID       string
	SessionID string
	Amount    int64
}

var (
	receipt = Receipt{UID: "123", SessionID: "cs_test_abc123", Amount: 1500}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	rs, cleanup, err := NewInMemoryStore[Receipt](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := rs.Get(c, receipt.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = rs.Put(c, receipt.UID, receipt)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		r, found, err := rs.Get(c, receipt.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, Receipt{UID: "123", SessionID: "cs_test_abc123", Amount: 1500}, r)
	})

	t.Run("Concurrent puts", func(t *testing.T) {
		wg := sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				uid := fmt.Sprintf("uid_%d", i)
				assert.NoError(t, rs.Put(c, uid, Receipt{UID: uid}))
			}(i)
		}
		wg.Wait()

		assert.Len(t, rs.Items, 11)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "Receipt", kindOf[Receipt]())
}
