package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

const (
	DefaultPlaylistTimeout = 60 * time.Second

	playlistURLParam = "list="
	paramSeparator   = "&"

	videoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistItem is one video from an expanded playlist.
type PlaylistItem struct {
	VideoID string
	Title   string
	URL     string
}

// PlaylistExpander resolves a playlist URL into its individual video URLs so
// each can be enqueued as its own task.
type PlaylistExpander struct {
	timeout time.Duration
}

// NewPlaylistExpander creates an expander with the default timeout.
func NewPlaylistExpander() *PlaylistExpander {
	return &PlaylistExpander{timeout: DefaultPlaylistTimeout}
}

// SetTimeout sets the timeout for playlist expansion
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// IsPlaylistURL reports whether the URL carries a playlist parameter.
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, playlistURLParam)
}

// ExtractPlaylistID extracts the playlist ID from various URL formats:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(url string) (string, error) {
	if !strings.Contains(url, playlistURLParam) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	parts := strings.Split(url, playlistURLParam)
	if len(parts) < 2 {
		return "", fmt.Errorf("could not extract playlist ID from URL")
	}

	playlistID := parts[1]
	if strings.Contains(playlistID, paramSeparator) {
		playlistID = strings.Split(playlistID, paramSeparator)[0]
	}
	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}
	return playlistID, nil
}

// Expand lists all videos of the playlist behind url.
func (p *PlaylistExpander) Expand(ctx context.Context, url string) ([]PlaylistItem, error) {
	playlistID, err := ExtractPlaylistID(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	videos := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		videos = append(videos, PlaylistItem{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(videoURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}
