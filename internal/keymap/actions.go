// Package keymap defines the console key bindings and resolves keys to
// session actions.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Media selection
	ActionNextMedia Action = "next_media"
	ActionPrevMedia Action = "prev_media"
	ActionLoad      Action = "load"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionRestart     Action = "restart"

	// Output actions
	ActionNextOutput       Action = "next_output"
	ActionNextCaption      Action = "next_caption"
	ActionToggleFullscreen Action = "toggle_fullscreen"
	ActionToggleAutoFull   Action = "toggle_auto_fullscreen"
	ActionToggleControls   Action = "toggle_controls"
	ActionToggleVisible    Action = "toggle_visible"

	// Device simulation
	ActionRotatePortrait  Action = "rotate_portrait"
	ActionRotateLandscape Action = "rotate_landscape"
	ActionRotateReverse   Action = "rotate_reverse"
	ActionToggleAutoRot   Action = "toggle_auto_rotate"

	// Teardown
	ActionDestroy          Action = "destroy"
	ActionDestroyWithError Action = "destroy_with_error"
	ActionClearLog         Action = "clear_log"
)
