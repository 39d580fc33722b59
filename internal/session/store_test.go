package session

import (
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIssuesToken(t *testing.T) {
	store := NewStore(time.Hour, nil)
	sess := store.GetOrCreate("")
	require.NotEmpty(t, sess.Token)

	again := store.GetOrCreate(sess.Token)
	assert.Same(t, sess, again)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour, nil)
	a := store.GetOrCreate("")
	b := store.GetOrCreate("")
	require.NotEqual(t, a.Token, b.Token)

	a.Cart.AddItem(domain.Product{ID: "p1", Price: 10, Currency: "USD"})
	assert.True(t, b.Cart.IsEmpty())
}

func TestUnknownTokenGetsFreshSession(t *testing.T) {
	store := NewStore(time.Hour, nil)
	sess := store.GetOrCreate("nope")
	assert.NotEqual(t, "nope", sess.Token)

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestExpiredSessionIsDropped(t *testing.T) {
	store := NewStore(time.Minute, nil)
	current := time.Now()
	store.now = func() time.Time { return current }

	sess := store.GetOrCreate("")
	current = current.Add(2 * time.Minute)

	_, ok := store.Get(sess.Token)
	assert.False(t, ok)

	fresh := store.GetOrCreate(sess.Token)
	assert.NotEqual(t, sess.Token, fresh.Token)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	store := NewStore(time.Minute, nil)
	current := time.Now()
	store.now = func() time.Time { return current }

	old := store.GetOrCreate("")
	current = current.Add(45 * time.Second)
	fresh := store.GetOrCreate("")
	current = current.Add(30 * time.Second)

	assert.Equal(t, 1, store.sweep())
	_, ok := store.Get(old.Token)
	assert.False(t, ok)
	_, ok = store.Get(fresh.Token)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	store := NewStore(time.Hour, nil)
	sess := store.GetOrCreate("")
	store.Delete(sess.Token)
	assert.Zero(t, store.Len())
}
