package console

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/history"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/orientation"
	"github.com/llehouerou/sessionctl/internal/playerror"
	"github.com/llehouerou/sessionctl/internal/session"
)

var testLogger = zerolog.Nop()

type fakeSession struct {
	mu         sync.Mutex
	calls      []string
	media      media.Descriptor
	state      session.State
	current    float64
	duration   float64
	fullscreen bool
	seeks      []float64
	playErr    error
	setErr     error
	destroyErr error
	bus        *events.Bus
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		media: media.Descriptor{OutputIndex: -1, CaptionIndex: -1},
		bus:   events.NewBus(testLogger),
	}
}

func (f *fakeSession) call(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeSession) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSession) SetMedia(d media.Descriptor) error {
	f.call("set_media:" + d.ID)
	if f.setErr != nil {
		return f.setErr
	}
	f.media = d
	return nil
}

func (f *fakeSession) Media() media.Descriptor { return f.media }

func (f *fakeSession) State() session.State { return f.state }

func (f *fakeSession) Play() error {
	f.call("play")
	return f.playErr
}

func (f *fakeSession) Pause() error {
	f.call("pause")
	return nil
}

func (f *fakeSession) Stop() error {
	f.call("stop")
	return nil
}

func (f *fakeSession) Seek(sec float64) error {
	f.call("seek")
	f.seeks = append(f.seeks, sec)
	return nil
}

func (f *fakeSession) SetFullscreen(on bool) error {
	f.call("fullscreen")
	f.fullscreen = on
	return nil
}

func (f *fakeSession) IsFullscreen() bool { return f.fullscreen }

func (f *fakeSession) SetAutoFullscreenMode(on bool) {
	if on {
		f.call("auto_fullscreen:on")
	} else {
		f.call("auto_fullscreen:off")
	}
}

func (f *fakeSession) SetEnableControls(on bool) {
	if on {
		f.call("controls:on")
	} else {
		f.call("controls:off")
	}
}

func (f *fakeSession) Show() { f.call("show") }

func (f *fakeSession) Hide() { f.call("hide") }

func (f *fakeSession) CurrentTime() float64 { return f.current }

func (f *fakeSession) Duration() float64 { return f.duration }

func (f *fakeSession) Destroy() error {
	f.call("destroy")
	return f.destroyErr
}

func (f *fakeSession) DestroyWithError(error) error {
	f.call("destroy_with_error")
	return nil
}

func (f *fakeSession) ChangeOutput(o media.Output) error {
	f.call("output:" + o.Label)
	next, err := f.media.WithOutput(o.Label)
	if err != nil {
		return err
	}
	f.media = next
	return nil
}

func (f *fakeSession) ChangeCaption(c media.Caption) error {
	f.call("caption:" + c.Language)
	next, err := f.media.WithCaption(c.Language)
	if err != nil {
		return err
	}
	f.media = next
	return nil
}

func (f *fakeSession) Subscribe() *events.Subscription { return f.bus.Subscribe() }

type fakeRecents struct {
	entries []history.Entry
	err     error
	calls   int
}

func (r *fakeRecents) Recent(limit int) ([]history.Entry, error) {
	r.calls++
	if len(r.entries) > limit {
		return r.entries[:limit], r.err
	}
	return r.entries, r.err
}

func newTestModel(t *testing.T, sess *fakeSession) Model {
	t.Helper()
	m := New(Options{
		Session:        sess,
		Sensor:         orientation.NewManualSensor(true),
		Catalog:        DemoCatalog(),
		EnableControls: true,
	})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	return m
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	require.Equal(t, key, msg.String())
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_LoadSetsMediaAndPlays(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)

	m, _ = press(t, m, "enter")

	assert.Equal(t, []string{"set_media:demo-vod", "play"}, sess.Calls())
	assert.Empty(t, m.status)
}

func TestModel_CursorWraps(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	n := len(m.catalog)

	m, _ = press(t, m, "up")
	assert.Equal(t, n-1, m.cursor)
	m, _ = press(t, m, "down")
	assert.Equal(t, 0, m.cursor)
	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.cursor)
}

func TestModel_PlayPauseFollowsState(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)

	sess.state = session.Playing
	m, _ = press(t, m, " ")
	sess.state = session.Paused
	_, _ = press(t, m, " ")

	assert.Equal(t, []string{"pause", "play"}, sess.Calls())
}

func TestModel_SeekClampsToMedia(t *testing.T) {
	sess := newFakeSession()
	sess.current, sess.duration = 5, 12
	m := newTestModel(t, sess)

	m, _ = press(t, m, "left")
	m, _ = press(t, m, "right")
	_, _ = press(t, m, "0")

	assert.Equal(t, []float64{0, 12, 0}, sess.seeks)
}

func TestModel_CyclesOutputsAndCaptions(t *testing.T) {
	sess := newFakeSession()
	sess.media = DemoCatalog()[0]
	m := newTestModel(t, sess)

	m, _ = press(t, m, "o")
	m, _ = press(t, m, "o")
	m, _ = press(t, m, "c")
	_, _ = press(t, m, "c")

	assert.Equal(t, []string{"output:1080p", "output:360p", "caption:fr", "caption:en"}, sess.Calls())
}

func TestModel_NoOutputsReportsStatus(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)

	m, _ = press(t, m, "o")

	assert.Empty(t, sess.Calls())
	assert.Contains(t, m.status, "No alternate qualities")
}

func TestModel_Toggles(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)

	m, _ = press(t, m, "f")
	m, _ = press(t, m, "F")
	m, _ = press(t, m, "C")
	m, _ = press(t, m, "v")
	_, _ = press(t, m, "v")

	assert.Equal(t, []string{"fullscreen", "auto_fullscreen:on", "controls:off", "hide", "show"}, sess.Calls())
	assert.True(t, sess.fullscreen)
}

func TestModel_RotationUsesSensor(t *testing.T) {
	sensor := orientation.NewManualSensor(true)
	var got []int
	sensor.Enable(func(angle int) { got = append(got, angle) })

	m := New(Options{Session: newFakeSession(), Sensor: sensor})
	m, _ = press(t, m, "2")
	m, _ = press(t, m, "3")
	m, _ = press(t, m, "1")
	assert.Equal(t, []int{90, 270, 0}, got)

	m, _ = press(t, m, "r")
	assert.False(t, sensor.AutoRotate())

	sensor.Disable()
	m, _ = press(t, m, "2")
	assert.Contains(t, m.status, "Sensor off")
}

func TestModel_DestroyKeys(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)

	m, _ = press(t, m, "x")
	_, _ = press(t, m, "X")

	assert.Equal(t, []string{"destroy", "destroy_with_error"}, sess.Calls())
}

func TestModel_ErrorsAreFormatted(t *testing.T) {
	sess := newFakeSession()
	sess.playErr = session.ErrDisabled
	m := newTestModel(t, sess)

	m, _ = press(t, m, "enter")
	assert.Equal(t, "Failed to start playback: session disabled", m.status)

	sess.setErr = playerror.Wrap(playerror.InvalidMedia, errors.New("empty"))
	m, _ = press(t, m, "enter")
	assert.Equal(t, "Failed to load media: Invalid media data.", m.status)

	sess.setErr = nil
	sess.playErr = nil
	m, _ = press(t, m, "s")
	assert.Empty(t, m.status)
}

func TestModel_QuitAndHelp(t *testing.T) {
	m := newTestModel(t, newFakeSession())

	m, _ = press(t, m, "?")
	assert.True(t, m.help)
	assert.Contains(t, m.View(), "Toggle fullscreen")

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_UnboundKeyIsIgnored(t *testing.T) {
	sess := newFakeSession()
	m := newTestModel(t, sess)
	m.status = "kept"

	m, cmd := press(t, m, "z")

	assert.Nil(t, cmd)
	assert.Empty(t, sess.Calls())
	assert.Equal(t, "kept", m.status)
}

func TestModel_RecordsEvents(t *testing.T) {
	rec := &fakeRecents{}
	m := New(Options{Session: newFakeSession(), History: rec})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }

	next, _ := m.Update(eventMsg(events.Event{Kind: events.Load}))
	m = next.(Model)
	next, _ = m.Update(eventMsg(events.ProgressEvent(3, 10)))
	m = next.(Model)

	require.Len(t, m.log, 1)
	assert.Equal(t, events.Load, m.log[0].event.Kind)
	assert.InDelta(t, 3.0, m.progress.CurrentTime, 1e-9)

	next, cmd := m.Update(eventMsg(events.Event{Kind: events.Unload}))
	m = next.(Model)
	assert.Zero(t, m.progress.Duration)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "15:04:05  Unload")
}

func TestModel_LogIsBounded(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	for range maxLogEntries + 10 {
		next, _ := m.Update(eventMsg(events.Event{Kind: events.Play}))
		m = next.(Model)
	}
	assert.Len(t, m.log, maxLogEntries)

	m, _ = press(t, m, "ctrl+l")
	assert.Empty(t, m.log)
}

func TestModel_HistoryMessages(t *testing.T) {
	rec := &fakeRecents{entries: []history.Entry{
		{Title: "Big Buck Bunny", StartedAt: time.Now().Add(-time.Hour), Finished: true},
		{Title: "Newsroom Live", StartedAt: time.Now(), ErrorKind: "DrmUnauthorized"},
	}}
	m := New(Options{Session: newFakeSession(), History: rec})

	msg := m.loadHistory()()
	next, _ := m.Update(msg)
	m = next.(Model)

	assert.Equal(t, 1, rec.calls)
	view := m.View()
	assert.Contains(t, view, "Recent sessions")
	assert.Contains(t, view, "finished")
	assert.Contains(t, view, "DrmUnauthorized")

	next, _ = m.Update(historyMsg{err: errors.New("disk gone")})
	m = next.(Model)
	assert.Equal(t, "Failed to load playback history: disk gone", m.status)
}

func TestModel_NoHistoryNoCommand(t *testing.T) {
	m := New(Options{Session: newFakeSession()})
	assert.Nil(t, m.loadHistory())
}

func TestModel_ViewShowsPlayerAndSurfaceError(t *testing.T) {
	sess := newFakeSession()
	sess.media = DemoCatalog()[0]
	sess.state = session.Playing
	sess.current, sess.duration = 83, 296
	surface := NewSurface()
	m := New(Options{Session: sess, Surface: surface, Catalog: DemoCatalog()})
	m.width = 100

	view := m.View()
	assert.Contains(t, view, "Big Buck Bunny")
	assert.Contains(t, view, "1:23")
	assert.Contains(t, view, "4:56")
	assert.Contains(t, view, "Quality 720p (2.5 Mbps)")
	assert.Contains(t, view, "Captions en")

	surface.ShowError(playerror.New(playerror.EmptyURL), false)
	assert.Contains(t, m.View(), "The requested media has no URL!")
	surface.ClearError()
	assert.NotContains(t, m.View(), "no URL")
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 120)
	}
}
