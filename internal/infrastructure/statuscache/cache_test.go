package statuscache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"buffzone.backend/internal/domain/entities"
)

func TestCache_GetMissAndHit(t *testing.T) {
	c := New()

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", Entry{Status: entities.InvoiceStatusPending, OrderCode: 1001})

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, entities.InvoiceStatusPending, got.Status)
	require.Equal(t, int64(1001), got.OrderCode)
}

func TestCache_SetOverwritesLastEntry(t *testing.T) {
	c := New()

	c.Set("k", Entry{Status: entities.InvoiceStatusPending})
	c.Set("k", Entry{Status: entities.InvoiceStatusCompleted})

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, entities.InvoiceStatusCompleted, got.Status)
}

func TestCache_SubscribersSeeUpdatesInOrder(t *testing.T) {
	c := New()

	var first, second []Entry
	c.Subscribe("k", func(e Entry) { first = append(first, e) })
	c.Subscribe("k", func(e Entry) { second = append(second, e) })

	c.Set("k", Entry{Status: entities.InvoiceStatusPending})
	c.Set("k", Entry{Status: entities.InvoiceStatusCompleted})

	require.Len(t, first, 2)
	require.Equal(t, entities.InvoiceStatusPending, first[0].Status)
	require.Equal(t, entities.InvoiceStatusCompleted, first[1].Status)
	require.Equal(t, first, second)
}

func TestCache_SubscriberOnlySeesOwnKey(t *testing.T) {
	c := New()

	var got []Entry
	c.Subscribe("a", func(e Entry) { got = append(got, e) })

	c.Set("b", Entry{Status: entities.InvoiceStatusCompleted})
	require.Empty(t, got)
}

func TestCache_UnsubscribeIsIdempotent(t *testing.T) {
	c := New()

	var calls int
	unsubscribe := c.Subscribe("k", func(Entry) { calls++ })
	require.Equal(t, 1, c.Subscribers("k"))

	unsubscribe()
	unsubscribe()
	unsubscribe()
	require.Zero(t, c.Subscribers("k"))

	c.Set("k", Entry{Status: entities.InvoiceStatusPending})
	require.Zero(t, calls)
}

func TestCache_UnsubscribeLeavesOthersIntact(t *testing.T) {
	c := New()

	var aCalls, bCalls int
	unsubA := c.Subscribe("k", func(Entry) { aCalls++ })
	c.Subscribe("k", func(Entry) { bCalls++ })

	unsubA()
	c.Set("k", Entry{Status: entities.InvoiceStatusPending})

	require.Zero(t, aCalls)
	require.Equal(t, 1, bCalls)
}

func TestCache_ConcurrentSetAndSubscribe(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := c.Subscribe("k", func(Entry) {})
			unsub()
		}()
		go func() {
			defer wg.Done()
			c.Set("k", Entry{Status: entities.InvoiceStatusPending})
		}()
	}
	wg.Wait()

	_, ok := c.Get("k")
	require.True(t, ok)
}

func TestEntry_Terminal(t *testing.T) {
	require.False(t, Entry{Status: entities.InvoiceStatusPending}.Terminal())
	require.True(t, Entry{Status: entities.InvoiceStatusCompleted}.Terminal())
	require.True(t, Entry{Status: entities.InvoiceStatusFailed}.Terminal())
	require.True(t, Entry{Status: entities.InvoiceStatusExpired}.Terminal())
}
