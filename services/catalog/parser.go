package catalog

import (
	"regexp"
	"strings"

	"lilibox/models"
)

// episodePattern matches "<title> S02E01..." style names. The S/E letters are
// case-insensitive and the token may be followed by arbitrary trailing text
// (release tags, the extension).
var episodePattern = regexp.MustCompile(`(?i)^(.+?)\s+(S\d+)(E\d+)`)

// extensionPattern strips only the final ".ext" suffix of a name.
var extensionPattern = regexp.MustCompile(`\.[^/.]+$`)

// ParseFileName derives a show/season/episode descriptor from a raw file
// name. It never fails: names without a season/episode token fall back to the
// extension-stripped name with sentinel season/episode values.
func ParseFileName(name string) models.ParsedName {
	if m := episodePattern.FindStringSubmatch(name); m != nil {
		season := strings.ToUpper(m[2])
		episode := strings.ToUpper(m[3])
		return models.ParsedName{
			Show:        strings.TrimSpace(m[1]),
			Season:      season,
			Episode:     episode,
			FullEpisode: season + episode,
		}
	}

	return models.ParsedName{
		Show:        extensionPattern.ReplaceAllString(name, ""),
		Season:      "Unknown",
		Episode:     "01",
		FullEpisode: "Unknown",
	}
}

// episodeNumber extracts the numeric episode from a parsed episode token
// ("E01" or "01"). Non-numeric values sort first as 0.
func episodeNumber(episode string) int {
	trimmed := strings.TrimPrefix(strings.ToUpper(episode), "E")
	n := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
