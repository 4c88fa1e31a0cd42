// Package console is an interactive terminal front end that drives one
// playback session from the keyboard and shows its event stream.
package console

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sessionctl/internal/errmsg"
	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/history"
	"github.com/llehouerou/sessionctl/internal/keymap"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/playerror"
	"github.com/llehouerou/sessionctl/internal/session"
)

const (
	maxLogEntries  = 200
	recentSessions = 5
	tickInterval   = 200 * time.Millisecond
)

// DefaultSeekStep is how far the seek keys move the playhead.
const DefaultSeekStep = 10 * time.Second

// Session is the part of the session controller the console drives.
type Session interface {
	SetMedia(d media.Descriptor) error
	Media() media.Descriptor
	State() session.State
	Play() error
	Pause() error
	Stop() error
	Seek(sec float64) error
	SetFullscreen(on bool) error
	IsFullscreen() bool
	SetAutoFullscreenMode(on bool)
	SetEnableControls(on bool)
	Show()
	Hide()
	CurrentTime() float64
	Duration() float64
	Destroy() error
	DestroyWithError(err error) error
	ChangeOutput(o media.Output) error
	ChangeCaption(c media.Caption) error
	Subscribe() *events.Subscription
}

// Sensor is the simulated orientation sensor.
type Sensor interface {
	Sample(angle int) bool
	AutoRotate() bool
	SetAutoRotate(on bool)
}

// Recents lists past sessions.
type Recents interface {
	Recent(limit int) ([]history.Entry, error)
}

// Options configure a Model.
type Options struct {
	Session        Session // required
	Sensor         Sensor
	Surface        *Surface
	History        Recents
	Catalog        []media.Descriptor
	Keys           *keymap.Resolver
	SeekStep       time.Duration
	AutoFullscreen bool
	EnableControls bool
}

type (
	tickMsg    time.Time
	eventMsg   events.Event
	closedMsg  struct{}
	historyMsg struct {
		entries []history.Entry
		err     error
	}
)

type logEntry struct {
	at    time.Time
	event events.Event
}

// Model is the bubbletea model of the console.
type Model struct {
	sess     Session
	sensor   Sensor
	surface  *Surface
	history  Recents
	sub      *events.Subscription
	keys     *keymap.Resolver
	seekStep time.Duration
	now      func() time.Time

	catalog []media.Descriptor
	cursor  int

	log      []logEntry
	progress events.Event
	recent   []history.Entry
	status   string

	autoFullscreen bool
	enableControls bool
	hidden         bool
	help           bool
	width, height  int
}

// New builds the console model and subscribes to the session.
func New(opts Options) Model {
	if opts.Keys == nil {
		opts.Keys = keymap.Default()
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultSeekStep
	}
	if opts.Surface == nil {
		opts.Surface = NewSurface()
	}
	return Model{
		sess:           opts.Session,
		sensor:         opts.Sensor,
		surface:        opts.Surface,
		history:        opts.History,
		sub:            opts.Session.Subscribe(),
		keys:           opts.Keys,
		seekStep:       opts.SeekStep,
		now:            time.Now,
		catalog:        opts.Catalog,
		autoFullscreen: opts.AutoFullscreen,
		enableControls: opts.EnableControls,
		width:          80,
		height:         24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitEvent(m.sub), m.loadHistory())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitEvent(sub *events.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return eventMsg(e)
		case <-sub.Done:
			return closedMsg{}
		}
	}
}

func (m Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	h := m.history
	return func() tea.Msg {
		entries, err := h.Recent(recentSessions)
		return historyMsg{entries: entries, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case eventMsg:
		cmd := m.record(events.Event(msg))
		return m, tea.Batch(waitEvent(m.sub), cmd)

	case closedMsg:
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.status = errmsg.Format(errmsg.OpHistoryLoad, msg.err)
			return m, nil
		}
		m.recent = msg.entries
		return m, nil

	case tea.KeyMsg:
		action, ok := m.keys.Resolve(msg.String())
		if !ok {
			return m, nil
		}
		return m.apply(action)
	}
	return m, nil
}

// record logs e. Progress only updates the player panel.
func (m *Model) record(e events.Event) tea.Cmd {
	if e.Kind == events.Progress {
		m.progress = e
		return nil
	}
	m.log = append(m.log, logEntry{at: m.now(), event: e})
	if over := len(m.log) - maxLogEntries; over > 0 {
		m.log = m.log[over:]
	}
	switch e.Kind {
	case events.Unload:
		m.progress = events.Event{}
		return m.loadHistory()
	case events.Finish, events.Error:
		return m.loadHistory()
	}
	return nil
}

func (m Model) apply(action keymap.Action) (tea.Model, tea.Cmd) {
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help = !m.help
		return m, nil
	case keymap.ActionClearLog:
		m.log = nil
		return m, nil
	case keymap.ActionNextMedia:
		if len(m.catalog) > 0 {
			m.cursor = (m.cursor + 1) % len(m.catalog)
		}
		return m, nil
	case keymap.ActionPrevMedia:
		if len(m.catalog) > 0 {
			m.cursor = (m.cursor - 1 + len(m.catalog)) % len(m.catalog)
		}
		return m, nil
	}

	m.status = ""
	m.fail(m.run(action))
	return m, nil
}

// opError tags a failure with the operation that caused it.
type opError struct {
	op  errmsg.Op
	err error
}

func (e *opError) Error() string { return e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

func wrap(op errmsg.Op, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	var oe *opError
	if errors.As(err, &oe) {
		m.status = errmsg.Format(oe.op, oe.err)
		return
	}
	m.status = err.Error()
}

func (m *Model) run(action keymap.Action) error {
	switch action {
	case keymap.ActionLoad:
		return m.load()
	case keymap.ActionPlayPause:
		if m.sess.State() == session.Playing {
			return wrap(errmsg.OpPause, m.sess.Pause())
		}
		return wrap(errmsg.OpPlay, m.sess.Play())
	case keymap.ActionStop:
		return wrap(errmsg.OpStop, m.sess.Stop())
	case keymap.ActionSeekForward:
		return m.seekTo(m.sess.CurrentTime() + m.seekStep.Seconds())
	case keymap.ActionSeekBack:
		return m.seekTo(m.sess.CurrentTime() - m.seekStep.Seconds())
	case keymap.ActionRestart:
		return m.seekTo(0)
	case keymap.ActionNextOutput:
		return m.nextOutput()
	case keymap.ActionNextCaption:
		return m.nextCaption()
	case keymap.ActionToggleFullscreen:
		return wrap(errmsg.OpFullscreen, m.sess.SetFullscreen(!m.sess.IsFullscreen()))
	case keymap.ActionToggleAutoFull:
		m.autoFullscreen = !m.autoFullscreen
		m.sess.SetAutoFullscreenMode(m.autoFullscreen)
	case keymap.ActionToggleControls:
		m.enableControls = !m.enableControls
		m.sess.SetEnableControls(m.enableControls)
	case keymap.ActionToggleVisible:
		m.hidden = !m.hidden
		if m.hidden {
			m.sess.Hide()
		} else {
			m.sess.Show()
		}
	case keymap.ActionRotatePortrait:
		m.sample(0)
	case keymap.ActionRotateLandscape:
		m.sample(90)
	case keymap.ActionRotateReverse:
		m.sample(270)
	case keymap.ActionToggleAutoRot:
		if m.sensor != nil {
			m.sensor.SetAutoRotate(!m.sensor.AutoRotate())
		}
	case keymap.ActionDestroy:
		return wrap(errmsg.OpDestroy, m.sess.Destroy())
	case keymap.ActionDestroyWithError:
		return wrap(errmsg.OpDestroy, m.sess.DestroyWithError(
			playerror.Wrap(playerror.Unknown, errors.New("destroyed from console"))))
	}
	return nil
}

func (m *Model) load() error {
	if m.cursor >= len(m.catalog) {
		return nil
	}
	d := m.catalog[m.cursor]
	if err := m.sess.SetMedia(d); err != nil {
		return wrap(errmsg.OpSetMedia, err)
	}
	m.progress = events.Event{}
	return wrap(errmsg.OpPlay, m.sess.Play())
}

func (m *Model) seekTo(sec float64) error {
	if d := m.sess.Duration(); d > 0 {
		sec = min(sec, d)
	}
	return wrap(errmsg.OpSeek, m.sess.Seek(max(sec, 0)))
}

func (m *Model) nextOutput() error {
	d := m.sess.Media()
	if len(d.Outputs) == 0 {
		m.status = "No alternate qualities for this media"
		return nil
	}
	next := d.Outputs[(d.OutputIndex+1)%len(d.Outputs)]
	return wrap(errmsg.OpChangeOutput, m.sess.ChangeOutput(next))
}

func (m *Model) nextCaption() error {
	d := m.sess.Media()
	if len(d.Captions) == 0 {
		m.status = "No captions for this media"
		return nil
	}
	next := d.Captions[(d.CaptionIndex+1)%len(d.Captions)]
	return wrap(errmsg.OpChangeCaption, m.sess.ChangeCaption(next))
}

func (m *Model) sample(angle int) {
	if m.sensor == nil {
		return
	}
	if !m.sensor.Sample(angle) {
		m.status = fmt.Sprintf("Sensor off, %d° sample ignored", angle)
	}
}
