// Package media describes what a playback session plays.
package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

// ErrEmpty is returned by Validate when a descriptor carries nothing playable.
var ErrEmpty = errors.New("media descriptor is empty")

// Type is the container/streaming protocol of a media source.
type Type int

const (
	TypeOther Type = iota
	TypeHLS
	TypeDASH
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeHLS:
		return "HLS"
	case TypeDASH:
		return "DASH"
	case TypeOther:
		return "OTHER"
	default:
		return "Unknown"
	}
}

// ParseType maps a loose type tag ("hls", "DASH", ...) to a Type.
// Anything unrecognised is TypeOther.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hls":
		return TypeHLS
	case "dash":
		return TypeDASH
	default:
		return TypeOther
	}
}

// Output is an alternative quality rendition of the same title.
type Output struct {
	Label   string
	URL     string
	Bitrate int64 // bits per second, 0 if unknown
	Height  int
}

// String returns the label with bitrate when known, e.g. "720p (2.5 Mbps)".
func (o Output) String() string {
	if o.Bitrate <= 0 {
		return o.Label
	}
	return fmt.Sprintf("%s (%s)", o.Label, humanize.SIWithDigits(float64(o.Bitrate), 1, "bps"))
}

// Caption is a subtitle track.
type Caption struct {
	Language string
	URL      string
}

// DRMRequest carries what the engine needs to fetch a license.
type DRMRequest struct {
	LicenseURL string
	Headers    map[string]string
}

// Descriptor is the description of what to play.
//
// Current output and caption are indexes into the ordered lists (-1 means none),
// so at most one of each can be current. Use WithOutput/WithCaption to move them.
type Descriptor struct {
	ID            string
	Title         string
	URL           string
	Type          Type
	AdURL         string
	DRM           *DRMRequest
	ThemeColor    uint32
	IsLive        bool
	IsAudioOnly   bool
	Outputs       []Output
	Captions      []Caption
	OutputIndex   int
	CaptionIndex  int
	BlockIfRooted bool
	RetriesTotal  int
}

const defaultThemeColor = 0xFF72BE44

// New returns a descriptor with no current output or caption and default theme color.
func New(id, title, url string, t Type) Descriptor {
	return Descriptor{
		ID:           id,
		Title:        title,
		URL:          url,
		Type:         t,
		ThemeColor:   defaultThemeColor,
		OutputIndex:  -1,
		CaptionIndex: -1,
		RetriesTotal: 3,
	}
}

// IsZero reports whether the descriptor carries no identity and no source.
func (d Descriptor) IsZero() bool {
	return d.ID == "" && d.URL == "" && len(d.Outputs) == 0
}

// Validate checks the descriptor can be handed to a session.
// An empty URL is not an error here; it is reported when the engine is created.
func (d Descriptor) Validate() error {
	if d.IsZero() {
		return ErrEmpty
	}
	if d.OutputIndex >= len(d.Outputs) || d.OutputIndex < -1 {
		return fmt.Errorf("output index %d out of range [0,%d)", d.OutputIndex, len(d.Outputs))
	}
	if d.CaptionIndex >= len(d.Captions) || d.CaptionIndex < -1 {
		return fmt.Errorf("caption index %d out of range [0,%d)", d.CaptionIndex, len(d.Captions))
	}
	return nil
}

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Outputs = append([]Output(nil), d.Outputs...)
	c.Captions = append([]Caption(nil), d.Captions...)
	if d.DRM != nil {
		drm := *d.DRM
		drm.Headers = make(map[string]string, len(d.DRM.Headers))
		for k, v := range d.DRM.Headers {
			drm.Headers[k] = v
		}
		c.DRM = &drm
	}
	return c
}

// PlaybackURL is the URL the engine should open: the current output's when one
// is selected, otherwise the descriptor's own.
func (d Descriptor) PlaybackURL() string {
	if o, ok := d.CurrentOutput(); ok {
		return o.URL
	}
	return d.URL
}

// CurrentOutput returns the selected output, if any.
func (d Descriptor) CurrentOutput() (Output, bool) {
	if d.OutputIndex < 0 || d.OutputIndex >= len(d.Outputs) {
		return Output{}, false
	}
	return d.Outputs[d.OutputIndex], true
}

// CurrentCaption returns the selected caption, if any.
func (d Descriptor) CurrentCaption() (Caption, bool) {
	if d.CaptionIndex < 0 || d.CaptionIndex >= len(d.Captions) {
		return Caption{}, false
	}
	return d.Captions[d.CaptionIndex], true
}

// WithOutput returns a copy with the output labelled label selected.
func (d Descriptor) WithOutput(label string) (Descriptor, error) {
	_, i, ok := lo.FindIndexOf(d.Outputs, func(o Output) bool { return o.Label == label })
	if !ok {
		return d, fmt.Errorf("output %q not found", label)
	}
	c := d.Clone()
	c.OutputIndex = i
	return c, nil
}

// WithCaption returns a copy with the caption for language selected.
func (d Descriptor) WithCaption(language string) (Descriptor, error) {
	_, i, ok := lo.FindIndexOf(d.Captions, func(c Caption) bool { return c.Language == language })
	if !ok {
		return d, fmt.Errorf("caption %q not found", language)
	}
	c := d.Clone()
	c.CaptionIndex = i
	return c, nil
}

// HasAd reports whether an ad-insertion URL is configured.
func (d Descriptor) HasAd() bool {
	return d.AdURL != ""
}
