// Package media resolves a song's opaque media reference into an audio
// byte stream by shelling out to yt-dlp.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

const watchURL = "https://www.youtube.com/watch?v=%s"

// Resolver implements quiz.MediaSource. It downloads the audio track into
// a temp file and hands back a reader that deletes the file on Close. All
// failure modes surface as tunequiz.ErrMediaUnavailable.
type Resolver struct {
	tempDir string
	logger  *slog.Logger
}

func NewResolver(tempDir string, logger *slog.Logger) *Resolver {
	return &Resolver{tempDir: tempDir, logger: logger}
}

// Install makes sure a yt-dlp binary is available, downloading one if the
// host has none. Called once at boot.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	return nil
}

func (r *Resolver) ResolveStream(ctx context.Context, mediaRef string, seek time.Duration) (io.ReadCloser, error) {
	if mediaRef == "" {
		return nil, fmt.Errorf("%w: empty media ref", tunequiz.ErrMediaUnavailable)
	}

	out := filepath.Join(r.tempDir, fmt.Sprintf("tunequiz-%s-%d.opus", mediaRef, time.Now().UnixNano()))

	dl := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		ExtractAudio().
		AudioFormat("opus").
		Output(out)
	if seek > 0 {
		// Clip from the offset onward; the playback window cuts it short.
		dl = dl.DownloadSections(fmt.Sprintf("*%d-", int(seek.Seconds())))
	}

	start := time.Now()
	if _, err := dl.Run(ctx, fmt.Sprintf(watchURL, mediaRef)); err != nil {
		return nil, fmt.Errorf("%w: %v", tunequiz.ErrMediaUnavailable, err)
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tunequiz.ErrMediaUnavailable, err)
	}

	r.logger.Debug("resolved media", "ref", mediaRef, "seek", seek,
		"duration_ms", time.Since(start).Milliseconds())

	return &tempFile{File: f}, nil
}

// tempFile removes the downloaded clip when the stream is closed.
type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	os.Remove(t.File.Name())
	return err
}
