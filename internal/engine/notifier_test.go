package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_HoldsUntilRegistered(t *testing.T) {
	var n Notifier
	var got []Notification

	n.Emit(Notification{Kind: KindStateChanged, State: Ready})
	n.Emit(Notification{Kind: KindSizeChanged})
	n.Emit(Notification{Kind: KindStateChanged, State: Ended})
	n.Flush()
	assert.Empty(t, got)

	n.On(KindStateChanged, func(note Notification) { got = append(got, note) })
	assert.Len(t, got, 2)
	assert.Equal(t, Ready, got[0].State)
	assert.Equal(t, Ended, got[1].State)

	n.On(KindSizeChanged, func(note Notification) { got = append(got, note) })
	assert.Len(t, got, 3)
	assert.Equal(t, KindSizeChanged, got[2].Kind)
}

func TestNotifier_HandlerMayEmit(t *testing.T) {
	var n Notifier
	var kinds []Kind
	n.On(KindPlayRequested, func(Notification) {
		kinds = append(kinds, KindPlayRequested)
		n.Emit(Notification{Kind: KindStateChanged})
	})
	n.On(KindStateChanged, func(Notification) { kinds = append(kinds, KindStateChanged) })

	n.Emit(Notification{Kind: KindPlayRequested})
	n.Flush()

	assert.Equal(t, []Kind{KindPlayRequested, KindStateChanged}, kinds)
}

func TestNotifier_OffAndClose(t *testing.T) {
	var n Notifier
	calls := 0
	n.On(KindError, func(Notification) { calls++ })
	n.Off(KindError)
	n.Emit(Notification{Kind: KindError})
	n.Flush()
	assert.Zero(t, calls)

	n.Close()
	n.On(KindError, func(Notification) { calls++ })
	n.Emit(Notification{Kind: KindError})
	n.Flush()
	assert.Zero(t, calls)
}

func TestNotifier_RegisterKeepsEmissionOrder(t *testing.T) {
	var n Notifier
	var kinds []Kind
	record := func(note Notification) { kinds = append(kinds, note.Kind) }

	n.Emit(Notification{Kind: KindSizeChanged})
	n.Emit(Notification{Kind: KindStateChanged, State: Ready})
	n.Emit(Notification{Kind: KindError})
	n.Register(map[Kind]Handler{
		KindStateChanged: record,
		KindError:        record,
		KindSizeChanged:  record,
	})

	assert.Equal(t, []Kind{KindSizeChanged, KindStateChanged, KindError}, kinds)
}

func TestNotifier_RegisterHoldsKindsWithoutHandler(t *testing.T) {
	var n Notifier
	var kinds []Kind
	record := func(note Notification) { kinds = append(kinds, note.Kind) }

	n.Emit(Notification{Kind: KindFullscreenChanged})
	n.Emit(Notification{Kind: KindStateChanged})
	n.Register(map[Kind]Handler{KindStateChanged: record})
	assert.Equal(t, []Kind{KindStateChanged}, kinds)

	n.Close()
	n.Register(map[Kind]Handler{KindFullscreenChanged: record})
	assert.Equal(t, []Kind{KindStateChanged}, kinds)
}
