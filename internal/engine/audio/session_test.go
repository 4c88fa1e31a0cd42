package audio

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/session"
)

func TestSession_PlaysToTheEnd(t *testing.T) {
	out := &manualOutput{}
	f := &Factory{
		Output: out,
		Open: func(string) (beep.StreamSeekCloser, beep.Format, error) {
			return silentStream(t, time.Second), testFormat, nil
		},
		Logger: zerolog.Nop(),
	}
	logger := zerolog.Nop()
	c, err := session.New(session.Options{Factory: f, Logger: &logger})
	require.NoError(t, err)
	defer c.Close()

	var mu sync.Mutex
	var kinds []events.Kind
	c.Listen(func(e events.Event) {
		if e.Kind == events.Progress {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, e.Kind)
	})
	seen := func(k events.Kind) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			return slices.Contains(kinds, k)
		}
	}

	d := media.New("a1", "Track", "/music/a.flac", media.TypeOther)
	d.IsAudioOnly = true
	require.NoError(t, c.SetMedia(d))
	require.NoError(t, c.Play())

	require.Eventually(t, seen(events.Play), time.Second, 5*time.Millisecond)
	assert.True(t, c.HasStarted())

	out.pull(1500)
	require.Eventually(t, seen(events.Finish), time.Second, 5*time.Millisecond)
	assert.True(t, c.HasFinished())
	assert.Zero(t, c.CurrentTime(), "rewound after finishing")

	mu.Lock()
	assert.Equal(t, []events.Kind{events.Load, events.Start, events.Play, events.Finish}, kinds)
	mu.Unlock()
}
