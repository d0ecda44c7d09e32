package fetch

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ytget/yt-grabber/internal/model"
)

// Language codes whose auto-generated captions are offered when no manual
// subtitles exist for them
var autoCaptionLangs = map[string]string{
	"en":      "en",
	"zh":      "zh",
	"zh-Hans": "zh",
	"zh-Hant": "zh",
}

// mediaDump mirrors the subset of the yt-dlp JSON dump we read.
type mediaDump struct {
	Title             string               `json:"title"`
	DurationString    string               `json:"duration_string"`
	Formats           []formatDump         `json:"formats"`
	Subtitles         map[string][]capDump `json:"subtitles"`
	AutomaticCaptions map[string][]capDump `json:"automatic_captions"`
}

type formatDump struct {
	FormatID string  `json:"format_id"`
	Ext      string  `json:"ext"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	Height   int     `json:"height"`
	ABR      float64 `json:"abr"`
}

type capDump struct {
	Name string `json:"name"`
}

// ParseMediaDump converts a yt-dlp single-JSON dump into MediaInfo: video
// formats are entries with a video codec, audio formats are audio-only
// entries, and subtitle tracks combine manual subtitles with a short
// whitelist of auto-generated captions.
func ParseMediaDump(data []byte) (*model.MediaInfo, error) {
	var dump mediaDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parse media dump: %w", err)
	}

	info := &model.MediaInfo{
		Title:    dump.Title,
		Duration: dump.DurationString,
	}

	for _, f := range dump.Formats {
		switch {
		case f.VCodec != "" && f.VCodec != "none":
			info.VideoFormats = append(info.VideoFormats, model.FormatInfo{
				ID:          f.FormatID,
				Description: describeVideo(f),
				Ext:         f.Ext,
			})
		case f.ACodec != "" && f.ACodec != "none":
			info.AudioFormats = append(info.AudioFormats, model.FormatInfo{
				ID:          f.FormatID,
				Description: describeAudio(f),
				Ext:         f.Ext,
			})
		}
	}

	info.Subtitles = collectSubtitles(dump)
	return info, nil
}

func describeVideo(f formatDump) string {
	if f.Height > 0 {
		return fmt.Sprintf("%dp %s", f.Height, f.Ext)
	}
	return fmt.Sprintf("?p %s", f.Ext)
}

func describeAudio(f formatDump) string {
	if f.ABR > 0 {
		return fmt.Sprintf("%.0fkbps %s", f.ABR, f.Ext)
	}
	return fmt.Sprintf("?kbps %s", f.Ext)
}

func collectSubtitles(dump mediaDump) []model.SubtitleTrack {
	var tracks []model.SubtitleTrack
	seen := make(map[string]bool)

	for code, caps := range dump.Subtitles {
		if len(caps) == 0 {
			continue
		}
		name := caps[0].Name
		if name == "" {
			name = code
		}
		tracks = append(tracks, model.SubtitleTrack{Code: code, Name: name})
		seen[code] = true
	}

	for code, caps := range dump.AutomaticCaptions {
		normalized, ok := autoCaptionLangs[code]
		if !ok || len(caps) == 0 || seen[normalized] {
			continue
		}
		name := caps[0].Name
		if name == "" {
			name = normalized
		}
		tracks = append(tracks, model.SubtitleTrack{
			Code: normalized,
			Name: name + " (auto-generated)",
		})
		seen[normalized] = true
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].Code < tracks[j].Code
	})
	return tracks
}
