package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/playerror"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
)

// OpenFunc opens and decodes the media at location.
type OpenFunc func(location string) (beep.StreamSeekCloser, beep.Format, error)

// Factory creates audio engines.
type Factory struct {
	Output Output
	Open   OpenFunc
	Logger zerolog.Logger
}

// NewFactory returns a factory playing local files on the system speaker.
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{Output: Speaker(), Open: OpenFile, Logger: logger}
}

// Create decodes the descriptor's playback URL and queues it on the output.
// Protected media is refused: this engine has no license client.
func (f *Factory) Create(ctx context.Context, d media.Descriptor, opts engine.CreateOptions) (engine.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.DRM != nil && d.DRM.LicenseURL != "" {
		return nil, fmt.Errorf("audio: %w", playerror.ErrDRMUnauthorized)
	}

	stream, format, err := f.Open(d.PlaybackURL())
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", d.PlaybackURL(), err)
	}
	rate, err := f.Output.Init(format.SampleRate)
	if err != nil {
		stream.Close()
		return nil, fmt.Errorf("audio: init output: %w", err)
	}

	logger := f.Logger.With().Str("media_id", d.ID).Logger()
	logger.Debug().
		Int("sample_rate", int(format.SampleRate)).
		Int("channels", format.NumChannels).
		Bool("resampled", rate != format.SampleRate).
		Msg("decoded")
	return newEngine(f.Output, stream, format, rate, opts, logger), nil
}

// OpenFile decodes a local MP3, FLAC or WAV file. location is a path or a
// file:// URL.
func OpenFile(location string) (beep.StreamSeekCloser, beep.Format, error) {
	path, err := localPath(location)
	if err != nil {
		return nil, beep.Format{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != extMP3 && ext != extFLAC && ext != extWAV {
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var stream beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		stream, format, err = decodeMP3(f)
	case extFLAC:
		// Some taggers prepend an ID3v2 tag the FLAC decoder does not expect.
		if err = skipID3v2(f); err == nil {
			stream, format, err = flac.Decode(f)
		}
	case extWAV:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return stream, format, nil
}

func localPath(location string) (string, error) {
	if !strings.Contains(location, "://") {
		return location, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	return u.Path, nil
}

// skipID3v2 positions r after a leading ID3v2 tag, or at the start when
// there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < 10 || string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// Syncsafe size: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

var _ engine.Factory = (*Factory)(nil)
