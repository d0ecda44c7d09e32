package model

// FormatInfo describes one downloadable video or audio format.
type FormatInfo struct {
	ID          string // yt-dlp format id
	Description string // e.g. "1080p mp4" or "128kbps m4a"
	Ext         string
}

// SubtitleTrack describes one available subtitle language.
type SubtitleTrack struct {
	Code string // language code, e.g. "en"
	Name string // display name, e.g. "English"
}

// MediaInfo is the result of resolving a URL: the metadata needed to let the
// user pick what to download.
type MediaInfo struct {
	Title        string
	Duration     string
	VideoFormats []FormatInfo
	AudioFormats []FormatInfo
	Subtitles    []SubtitleTrack
}
