package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/history"
	"github.com/llehouerou/sessionctl/internal/keymap"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/session"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
)

func (m Model) View() string {
	width := max(m.width, 40)
	inner := width - 4 // border + padding

	sections := []string{
		m.renderHeader(width),
		panelStyle.Width(width - 2).Render(m.renderCatalog()),
		panelStyle.Width(width - 2).Render(m.renderPlayer(inner)),
	}
	if m.status != "" {
		sections = append(sections, warningStyle.Render(truncate(m.status, width)))
	}

	used := 0
	for _, s := range sections {
		used += lipgloss.Height(s)
	}
	var bottom string
	if m.help {
		bottom = m.renderHelp()
	} else {
		rows := max(m.height-used-2-m.historyRows(), 3)
		bottom = m.renderLog(rows, inner)
		if h := m.renderHistory(); h != "" {
			bottom += "\n" + h
		}
	}
	sections = append(sections, panelStyle.Width(width-2).Render(bottom))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	left := headerStyle.Render("sessionctl") + "  " + stateStyle(m.sess.State()).Render(m.sess.State().String())
	right := mutedStyle.Render("? help  q quit")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func stateStyle(s session.State) lipgloss.Style {
	switch s {
	case session.Playing:
		return successStyle
	case session.Failed, session.Disabled:
		return errorStyle
	case session.Paused, session.Stopped, session.Creating:
		return warningStyle
	default:
		return mutedStyle
	}
}

func (m Model) renderCatalog() string {
	if len(m.catalog) == 0 {
		return mutedStyle.Render("No media")
	}
	lines := make([]string, 0, len(m.catalog))
	for i, d := range m.catalog {
		line := "  " + d.Title
		if i == m.cursor {
			line = cursorStyle.Render("▸ " + d.Title)
		}
		if tags := mediaTags(d); tags != "" {
			line += " " + subtleStyle.Render(tags)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func mediaTags(d media.Descriptor) string {
	var tags []string
	if d.IsLive {
		tags = append(tags, "live")
	}
	if d.IsAudioOnly {
		tags = append(tags, "audio")
	}
	if d.DRM != nil {
		tags = append(tags, "drm")
	}
	if d.BlockIfRooted {
		tags = append(tags, "trusted-only")
	}
	if d.Type != media.TypeOther {
		tags = append(tags, d.Type.String())
	}
	if len(tags) == 0 {
		return ""
	}
	return "[" + strings.Join(tags, " ") + "]"
}

func (m Model) renderPlayer(width int) string {
	d := m.sess.Media()
	state := m.sess.State()

	title := d.Title
	if title == "" {
		title = "Nothing loaded"
	}
	lines := []string{titleStyle.Render(truncate(title, width))}

	pos := secondsToDuration(m.sess.CurrentTime())
	dur := secondsToDuration(m.sess.Duration())
	if d.IsLive {
		lines = append(lines, renderLive(pos, state == session.Playing))
	} else {
		lines = append(lines, RenderProgressBar(pos, dur, width, state == session.Playing))
	}
	lines = append(lines, m.renderSettings(d))

	if err, audioOnly := m.surface.Current(); err != nil {
		msg := "⚠ " + err.Error()
		if audioOnly {
			msg += mutedStyle.Render(" (audio)")
		}
		lines = append(lines, errorStyle.Render(msg))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSettings(d media.Descriptor) string {
	var parts []string
	if o, ok := d.CurrentOutput(); ok {
		parts = append(parts, "Quality "+o.String())
	}
	if c, ok := d.CurrentCaption(); ok {
		parts = append(parts, "Captions "+c.Language)
	}
	parts = append(parts,
		"Fullscreen "+onOff(m.sess.IsFullscreen()),
		"Auto-FS "+onOff(m.autoFullscreen),
		"Controls "+onOff(m.enableControls),
	)
	if m.sensor != nil {
		parts = append(parts, "Rotate "+onOff(m.sensor.AutoRotate()))
	}
	if m.hidden {
		parts = append(parts, "hidden")
	}
	return mutedStyle.Render(strings.Join(parts, "   "))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// RenderProgressBar renders a block-style progress bar.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func RenderProgressBar(position, duration time.Duration, width int, playing bool) string {
	status := "▶"
	if !playing {
		status = "⏸"
	}
	posStr := formatDuration(position)
	durStr := formatDuration(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)
	return status + "  " + posStr + "  " + bar + "  " + durStr
}

func renderLive(position time.Duration, playing bool) string {
	status := "▶"
	if !playing {
		status = "⏸"
	}
	return status + "  " + errorStyle.Render("● LIVE") + "  " + formatDuration(position)
}

func (m Model) renderLog(rows, width int) string {
	lines := []string{titleStyle.Render("Events")}
	if len(m.log) == 0 {
		lines = append(lines, mutedStyle.Render("No events yet. Select media and press enter."))
		return strings.Join(lines, "\n")
	}
	start := max(len(m.log)-rows, 0)
	for _, e := range m.log[start:] {
		text := truncate(e.event.String(), width-10)
		lines = append(lines, e.at.Format("15:04:05")+"  "+eventStyle(e.event.Kind).Render(text))
	}
	return strings.Join(lines, "\n")
}

func eventStyle(k events.Kind) lipgloss.Style {
	switch k {
	case events.Error:
		return errorStyle
	case events.Start, events.Play, events.Finish:
		return successStyle
	case events.Load, events.Unload:
		return cursorStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) historyRows() int {
	if len(m.recent) == 0 {
		return 0
	}
	return len(m.recent) + 2
}

func (m Model) renderHistory() string {
	if len(m.recent) == 0 {
		return ""
	}
	lines := []string{"", titleStyle.Render("Recent sessions")}
	for _, e := range m.recent {
		lines = append(lines, fmt.Sprintf("%-28s %-14s %s",
			truncate(e.Title, 28), humanize.Time(e.StartedAt), entryOutcome(e)))
	}
	return strings.Join(lines, "\n")
}

func entryOutcome(e history.Entry) string {
	switch {
	case e.ErrorKind != "":
		return errorStyle.Render(e.ErrorKind)
	case e.Finished:
		return successStyle.Render("finished")
	case e.Duration > 0:
		return fmt.Sprintf("stopped at %s / %s",
			formatDuration(secondsToDuration(e.LastPosition)),
			formatDuration(secondsToDuration(e.Duration)))
	default:
		return mutedStyle.Render("not started")
	}
}

func (m Model) renderHelp() string {
	var lines []string
	for _, ctx := range keymap.Contexts {
		lines = append(lines, titleStyle.Render(ctx))
		for _, b := range keymap.ByContext(ctx) {
			keys := make([]string, 0, len(b.Keys))
			for _, k := range m.keys.KeysFor(b.Action) {
				if k == " " {
					continue
				}
				keys = append(keys, k)
			}
			lines = append(lines, "  "+keyStyle.Width(22).Render(strings.Join(keys, "/"))+b.Description)
		}
	}
	return strings.Join(lines, "\n")
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
