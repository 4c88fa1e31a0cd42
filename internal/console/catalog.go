package console

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/llehouerou/sessionctl/internal/media"
)

// DemoCatalog returns the built-in media list. The URLs are served by the
// simulated engine, which never fetches them.
func DemoCatalog() []media.Descriptor {
	vod := media.New("demo-vod", "Big Buck Bunny", "https://cdn.example.com/bbb/master.m3u8", media.TypeHLS)
	vod.Outputs = []media.Output{
		{Label: "360p", URL: "https://cdn.example.com/bbb/360.m3u8", Bitrate: 800_000, Height: 360},
		{Label: "720p", URL: "https://cdn.example.com/bbb/720.m3u8", Bitrate: 2_500_000, Height: 720},
		{Label: "1080p", URL: "https://cdn.example.com/bbb/1080.m3u8", Bitrate: 5_000_000, Height: 1080},
	}
	vod.OutputIndex = 1
	vod.Captions = []media.Caption{
		{Language: "en", URL: "https://cdn.example.com/bbb/en.vtt"},
		{Language: "fr", URL: "https://cdn.example.com/bbb/fr.vtt"},
	}
	vod.CaptionIndex = 0

	live := media.New("demo-live", "Newsroom Live", "https://live.example.com/news/index.m3u8", media.TypeHLS)
	live.IsLive = true

	drm := media.New("demo-drm", "Licensed Feature", "https://cdn.example.com/feature/manifest.mpd", media.TypeDASH)
	drm.DRM = &media.DRMRequest{LicenseURL: "https://license.example.com/widevine"}

	unlicensed := media.New("demo-unlicensed", "Unlicensed Feature", "https://cdn.example.com/feature/manifest.mpd", media.TypeDASH)
	unlicensed.DRM = &media.DRMRequest{}

	gated := media.New("demo-gated", "Studio Premiere (trusted devices)", "https://cdn.example.com/premiere/master.m3u8", media.TypeHLS)
	gated.BlockIfRooted = true

	broken := media.New("demo-empty", "Missing Source", "", media.TypeOther)

	return []media.Descriptor{vod, live, drm, unlicensed, gated, broken}
}

// FromFiles builds audio-only descriptors for local files.
func FromFiles(paths []string) []media.Descriptor {
	out := make([]media.Descriptor, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		title := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		d := media.New("file:"+abs, title, u.String(), media.TypeOther)
		d.IsAudioOnly = true
		out = append(out, d)
	}
	return out
}
