package catalog

import (
	"sort"

	"lilibox/models"
)

// Group partitions entries into per-show groups keyed by the parsed show
// name. Group order and season order follow first appearance in the input;
// within a season, episodes are sorted by ascending numeric episode with ties
// keeping input order. Every entry lands in exactly one group.
func Group(entries []models.MediaEntry) []*models.ShowGroup {
	groups := make([]*models.ShowGroup, 0)
	index := make(map[string]*models.ShowGroup)

	for _, entry := range entries {
		entry.ParsedName = ParseFileName(entry.Name)
		entry.IsVideo = models.IsVideoMime(entry.MimeType)

		showName := entry.ParsedName.Show
		if showName == "" {
			showName = models.OtherMediaGroup
		}

		group, ok := index[showName]
		if !ok {
			group = &models.ShowGroup{ShowName: showName}
			index[showName] = group
			groups = append(groups, group)
		}
		group.Episodes = append(group.Episodes, entry)
	}

	for _, group := range groups {
		sortEpisodes(group.Episodes)
	}
	return groups
}

// sortEpisodes orders a group's episodes season bucket by season bucket.
// Seasons keep their first-seen order; episodes within a season sort stably
// by numeric episode.
func sortEpisodes(episodes []models.MediaEntry) {
	seasonOrder := make(map[string]int)
	for _, e := range episodes {
		if _, ok := seasonOrder[e.ParsedName.Season]; !ok {
			seasonOrder[e.ParsedName.Season] = len(seasonOrder)
		}
	}
	sort.SliceStable(episodes, func(i, j int) bool {
		si, sj := seasonOrder[episodes[i].ParsedName.Season], seasonOrder[episodes[j].ParsedName.Season]
		if si != sj {
			return si < sj
		}
		return episodeNumber(episodes[i].ParsedName.Episode) < episodeNumber(episodes[j].ParsedName.Episode)
	})
}
