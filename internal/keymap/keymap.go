package keymap

// Context names group bindings in the help view.
const (
	ContextGlobal   = "global"
	ContextMedia    = "media"
	ContextPlayback = "playback"
	ContextOutput   = "output"
	ContextDevice   = "device"
	ContextSession  = "session"
)

// Contexts lists the contexts in help display order.
var Contexts = []string{
	ContextGlobal,
	ContextMedia,
	ContextPlayback,
	ContextOutput,
	ContextDevice,
	ContextSession,
}

// Binding maps keys to an action, with a description for help generation.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// All contains every console binding.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},
	{ActionClearLog, []string{"ctrl+l"}, "Clear event log", ContextGlobal},

	// Media
	{ActionNextMedia, []string{"j", "down"}, "Select next media", ContextMedia},
	{ActionPrevMedia, []string{"k", "up"}, "Select previous media", ContextMedia},
	{ActionLoad, []string{"enter"}, "Load selected media", ContextMedia},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", ContextPlayback},
	{ActionStop, []string{"s"}, "Stop", ContextPlayback},
	{ActionSeekBack, []string{"left", "h"}, "Seek -10s", ContextPlayback},
	{ActionSeekForward, []string{"right", "l"}, "Seek +10s", ContextPlayback},
	{ActionRestart, []string{"0", "home"}, "Seek to start", ContextPlayback},

	// Output
	{ActionNextOutput, []string{"o"}, "Next quality", ContextOutput},
	{ActionNextCaption, []string{"c"}, "Next caption track", ContextOutput},
	{ActionToggleFullscreen, []string{"f"}, "Toggle fullscreen", ContextOutput},
	{ActionToggleAutoFull, []string{"F"}, "Toggle auto-fullscreen mode", ContextOutput},
	{ActionToggleControls, []string{"C"}, "Toggle engine controls", ContextOutput},
	{ActionToggleVisible, []string{"v"}, "Show/hide engine", ContextOutput},

	// Device
	{ActionRotatePortrait, []string{"1"}, "Rotate to portrait (0°)", ContextDevice},
	{ActionRotateLandscape, []string{"2"}, "Rotate to landscape (90°)", ContextDevice},
	{ActionRotateReverse, []string{"3"}, "Rotate to reverse landscape (270°)", ContextDevice},
	{ActionToggleAutoRot, []string{"r"}, "Toggle OS auto-rotate", ContextDevice},

	// Session
	{ActionDestroy, []string{"x"}, "Destroy engine", ContextSession},
	{ActionDestroyWithError, []string{"X"}, "Destroy engine with error", ContextSession},
}

// ByContext returns bindings filtered by context.
func ByContext(ctx string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == ctx {
			result = append(result, b)
		}
	}
	return result
}
