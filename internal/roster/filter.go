package roster

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/leighmacdonald/roster-tui/internal/normalize"
)

// Filter returns the subset of players whose folded name contains the folded query, or whose decimal
// id contains the query verbatim. A blank query returns the players unchanged.
func Filter(players []PlayerRecord, query string) []PlayerRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return players
	}

	filtered := make([]PlayerRecord, 0, len(players))
	for _, player := range players {
		if normalize.Contains(player.Name, query) ||
			strings.Contains(strconv.Itoa(player.ID), query) {
			filtered = append(filtered, player)
		}
	}

	return filtered
}

// SortTags orders the groups for display: descending member count, ties broken by the mapping table
// order, and the Untagged sentinel always last. Keys unknown to the table sort after known keys in
// first seen order.
func SortTags(grouping Grouping, mappings []TeamMapping) []TagCount {
	tableIndex := make(map[string]int, len(mappings))
	for idx, mapping := range mappings {
		if _, found := tableIndex[mapping.CanonicalName]; !found {
			tableIndex[mapping.CanonicalName] = idx
		}
	}

	seenIndex := make(map[string]int, grouping.Len())
	for idx, key := range grouping.Keys() {
		seenIndex[key] = idx
	}

	order := func(key string) int {
		if idx, found := tableIndex[key]; found {
			return idx
		}

		return len(mappings) + seenIndex[key]
	}

	tags := make([]TagCount, 0, grouping.Len())
	for _, key := range grouping.Keys() {
		tags = append(tags, TagCount{
			Key:     key,
			Display: DisplayName(key, mappings),
			Count:   grouping.Count(key),
		})
	}

	slices.SortStableFunc(tags, func(a, b TagCount) int {
		if a.Key == Untagged || b.Key == Untagged {
			switch {
			case a.Key == b.Key:
				return 0
			case a.Key == Untagged:
				return 1
			default:
				return -1
			}
		}

		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}

		return cmp.Compare(order(a.Key), order(b.Key))
	})

	return tags
}

// DisplayName returns the human readable label of a group key.
func DisplayName(key string, mappings []TeamMapping) string {
	if key == Untagged {
		return "UNTAGGED"
	}

	for _, mapping := range mappings {
		if mapping.CanonicalName == key && mapping.DisplayName != "" {
			return mapping.DisplayName
		}
	}

	return strings.ToUpper(key)
}
