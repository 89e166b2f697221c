package models

import "strings"

// MediaEntry represents one file in the configured Drive media folder.
// Entries are built fresh on every catalog request and never persisted.
type MediaEntry struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	MimeType     string     `json:"mimeType"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	WebViewLink  string     `json:"webViewLink,omitempty"`
	Size         *int64     `json:"size,omitempty"` // Drive omits size for some entries (e.g. Docs types)
	ModifiedTime string     `json:"modifiedTime,omitempty"`
	IsVideo      bool       `json:"isVideo"`
	ParsedName   ParsedName `json:"parsedName"`
}

// ParsedName is the structured show/season/episode descriptor derived from a
// file name. Parsing is total: every input yields a ParsedName.
type ParsedName struct {
	Show        string `json:"show"`
	Season      string `json:"season"`      // "S02" or "Unknown"
	Episode     string `json:"episode"`     // "E01" or the default "01"
	FullEpisode string `json:"fullEpisode"` // "S02E01" or "Unknown"
}

// OtherMediaGroup is the group key for entries whose name carries no
// season/episode pattern.
const OtherMediaGroup = "Other Media"

// ShowGroup aggregates all episodes of one distinct show, plus optional
// TMDB enrichment. Groups are keyed by exact string equality of ShowName.
type ShowGroup struct {
	ShowName string        `json:"showName"`
	Metadata *ShowMetadata `json:"tmdbData"`
	Episodes []MediaEntry  `json:"episodes"`
}

// ShowMetadata holds the TMDB enrichment for a show. PosterURL/BackdropURL
// are resolved against the image base; empty when TMDB supplies no path.
type ShowMetadata struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	PosterURL    string  `json:"poster_url,omitempty"`
	BackdropURL  string  `json:"backdrop_url,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

// IsVideoMime reports whether a provider-reported content type denotes video.
func IsVideoMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/")
}
