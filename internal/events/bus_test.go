package events

import (
	"sync"
	"testing"
	"testing/synctest"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sessionctl/internal/playerror"
)

type recorder struct {
	mu    sync.Mutex
	kinds []Kind
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, e.Kind)
}

func (r *recorder) got() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Kind(nil), r.kinds...)
}

func TestBus_DeliversInOrder(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var r recorder
	b.Listen(r.listen)

	b.Enqueue(Event{Kind: Load})
	b.Enqueue(Event{Kind: Start})
	b.Enqueue(Event{Kind: Play})
	assert.Empty(t, r.got(), "nothing delivered before Drain")

	b.Drain()
	if diff := cmp.Diff([]Kind{Load, Start, Play}, r.got()); diff != "" {
		t.Errorf("delivered kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_PanickingListenerIsIsolated(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var first, last recorder
	b.Listen(first.listen)
	b.Listen(func(Event) { panic("listener bug") })
	b.Listen(last.listen)

	b.Publish(Event{Kind: Play})
	b.Publish(Event{Kind: Pause})

	assert.Equal(t, []Kind{Play, Pause}, first.got())
	assert.Equal(t, []Kind{Play, Pause}, last.got())
}

func TestBus_ReentrantPublishKeepsOrder(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var r recorder
	b.Listen(func(e Event) {
		if e.Kind == Error {
			// A listener reacting to an error tears the session down.
			b.Publish(Event{Kind: Unload})
		}
	})
	b.Listen(r.listen)

	b.Publish(ErrorEvent(playerror.New(playerror.Unknown)))

	assert.Equal(t, []Kind{Error, Unload}, r.got())
}

func TestBus_DeferRunsAfterEarlierEvents(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var order []string
	b.Listen(func(e Event) { order = append(order, e.Kind.String()) })

	b.Enqueue(Event{Kind: Error})
	b.Defer(func() { order = append(order, "surface") })
	b.Enqueue(Event{Kind: Unload})
	b.Drain()

	assert.Equal(t, []string{"Error", "surface", "Unload"}, order)
}

func TestBus_ListenCancel(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var r recorder
	cancel := b.Listen(r.listen)

	b.Publish(Event{Kind: Play})
	cancel()
	cancel()
	b.Publish(Event{Kind: Pause})

	assert.Equal(t, []Kind{Play}, r.got())
}

func TestBus_SubscriptionReceives(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := NewBus(zerolog.Nop())
		sub := b.Subscribe()

		b.Publish(ProgressEvent(1.5, 10))

		e := <-sub.Events
		assert.Equal(t, Progress, e.Kind)
		assert.InDelta(t, 1.5, e.CurrentTime, 1e-9)

		b.Unsubscribe(sub)
		<-sub.Done
	})
}

func TestBus_SubscriptionDropsWhenFull(t *testing.T) {
	b := NewBus(zerolog.Nop())
	sub := b.Subscribe()
	var r recorder
	b.Listen(r.listen)

	for range eventBufferSize + 5 {
		b.Publish(Event{Kind: Progress})
	}

	assert.Len(t, sub.Events, eventBufferSize)
	assert.Len(t, r.got(), eventBufferSize+5, "listeners never lose events")
}

func TestBus_CloseClosesSubscriptions(t *testing.T) {
	b := NewBus(zerolog.Nop())
	sub := b.Subscribe()
	b.Close()
	b.Close()

	select {
	case <-sub.Done:
	default:
		t.Fatal("Done not closed after Close()")
	}

	late := b.Subscribe()
	select {
	case <-late.Done:
	default:
		t.Fatal("subscription created after Close() should be done")
	}
	b.Unsubscribe(sub)
}

func TestBus_ConcurrentPublishersDeliverEverything(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var r recorder
	b.Listen(r.listen)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Publish(Event{Kind: Progress})
			}
		}()
	}
	wg.Wait()
	b.Drain()

	require.Len(t, r.got(), 400)
}
