package roster_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/stretchr/testify/require"
)

func testMappings() []roster.TeamMapping {
	return []roster.TeamMapping{
		{CanonicalName: "forza", Aliases: []string{"frz"}, DisplayName: "Forza"},
		{CanonicalName: "montreal"},
		{CanonicalName: "ratés", DisplayName: "Ratés"},
		{CanonicalName: "lunatic", Aliases: []string{"lnt"}},
		{CanonicalName: "rates"},
		{CanonicalName: "1786"},
	}
}

func players(names ...string) []roster.PlayerRecord {
	records := make([]roster.PlayerRecord, len(names))
	for idx, name := range names {
		records[idx] = roster.PlayerRecord{ID: idx + 1, Name: name, Ping: 40 + idx}
	}

	return records
}

func TestClassifyAlias(t *testing.T) {
	grouping := roster.Classify(players("xFRZsniper"), testMappings())
	require.Equal(t, []string{"forza"}, grouping.Keys())
	require.Equal(t, "xFRZsniper", grouping.Players("forza")[0].Name)
}

func TestClassifyUntagged(t *testing.T) {
	grouping := roster.Classify(players("Random Guy"), testMappings())
	require.Equal(t, []string{roster.Untagged}, grouping.Keys())
}

func TestClassifyTableOrderWins(t *testing.T) {
	// Both "ratés" and "rates" fold to the same string, the first authored entry must win.
	grouping := roster.Classify(players("RATES | Emre", "Ratés Can"), testMappings())
	require.Equal(t, []string{"ratés"}, grouping.Keys())
	require.Equal(t, 2, grouping.Count("ratés"))
	require.Equal(t, 0, grouping.Count("rates"))
}

func TestClassifyCanonicalBeforeAlias(t *testing.T) {
	mappings := []roster.TeamMapping{
		{CanonicalName: "alpha", Aliases: []string{"beta"}},
		{CanonicalName: "beta"},
	}
	require.Equal(t, "alpha", roster.Tag("beta boy", mappings))
}

func TestClassifyTurkishNames(t *testing.T) {
	require.Equal(t, "lunatic", roster.Tag("LUNATİC Kaan", testMappings()))
	require.Equal(t, "lunatic", roster.Tag("LUNATIC Kaan", testMappings()))
}

func TestClassifyWholeWord(t *testing.T) {
	mappings := []roster.TeamMapping{
		{CanonicalName: "ravens", Aliases: []string{"rt"}, WholeWord: true},
	}
	require.Equal(t, roster.Untagged, roster.Tag("heart breaker", mappings))
	require.Equal(t, "ravens", roster.Tag("RT | heart breaker", mappings))
	require.Equal(t, "ravens", roster.Tag("[rt]kaan", mappings))
	// Canonical names are still matched as substrings.
	require.Equal(t, "ravens", roster.Tag("xRAVENSx", mappings))

	loose := []roster.TeamMapping{{CanonicalName: "ravens", Aliases: []string{"rt"}}}
	require.Equal(t, "ravens", roster.Tag("heart breaker", loose))
}

func TestClassifyPartition(t *testing.T) {
	names := []string{
		"xFRZsniper", "Montreal Bob", "nobody", "LNT kaan", "1786 | Mert",
		"ratés ali", "frz 2", "someone else", "MONTREAL 2", "lunatic 3",
	}

	for range 25 {
		input := players(names...)
		rand.Shuffle(len(input), func(i, j int) { input[i], input[j] = input[j], input[i] })

		grouping := roster.Classify(input, testMappings())
		require.Equal(t, len(input), grouping.Total())

		seen := map[int]int{}
		for _, key := range grouping.Keys() {
			// Stable partition: members keep their relative input order.
			lastPos := -1
			for _, player := range grouping.Players(key) {
				seen[player.ID]++
				pos := indexOf(input, player.ID)
				require.Greater(t, pos, lastPos)
				lastPos = pos
				// Membership only depends on the name.
				require.Equal(t, key, roster.Tag(player.Name, testMappings()))
			}
		}

		require.Len(t, seen, len(input))
		for _, count := range seen {
			require.Equal(t, 1, count)
		}
	}
}

func indexOf(records []roster.PlayerRecord, id int) int {
	for idx, record := range records {
		if record.ID == id {
			return idx
		}
	}

	return -1
}

func TestFilter(t *testing.T) {
	records := []roster.PlayerRecord{
		{ID: 177, Name: "alpha"},
		{ID: 200, Name: "bravo"},
		{ID: 5, Name: "İlker 77"},
	}

	filtered := roster.Filter(records[:2], "77")
	require.Len(t, filtered, 1)
	require.Equal(t, 177, filtered[0].ID)

	require.Len(t, roster.Filter(records, "ilker"), 1)
	require.Len(t, roster.Filter(records, "  "), 3)
	require.Len(t, roster.Filter(records, "77"), 2)
	require.Empty(t, roster.Filter(records, "zulu"))

	nordic := []roster.PlayerRecord{{ID: 9, Name: "Ǿrnek"}}
	require.Len(t, roster.Filter(nordic, "ornek"), 1)
	require.Len(t, roster.Filter(nordic, "Ørnek"), 1)
}

func TestSortTags(t *testing.T) {
	records := players(
		"nobody 1", "nobody 2", "nobody 3", "nobody 4", "nobody 5",
		"montreal a", "frz b", "montreal c", "1786 d", "frz e",
		"lunatic f",
	)

	tags := roster.SortTags(roster.Classify(records, testMappings()), testMappings())
	keys := make([]string, len(tags))
	for idx, tag := range tags {
		keys[idx] = tag.Key
	}

	// forza and montreal tie at 2, forza is first in the table. lunatic and 1786 tie at 1.
	require.Equal(t, []string{"forza", "montreal", "lunatic", "1786", roster.Untagged}, keys)
	require.Equal(t, "Forza", tags[0].Display)
	require.Equal(t, "MONTREAL", tags[1].Display)
	require.Equal(t, "UNTAGGED", tags[4].Display)
	require.Equal(t, 5, tags[4].Count)
}

func TestViewFirstFetchSelectsLargest(t *testing.T) {
	view := roster.NewView(testMappings())
	require.Equal(t, roster.StatusIdle, view.Status())

	token, ok := view.BeginFetch()
	require.True(t, ok)
	require.Equal(t, roster.StatusLoading, view.Status())

	_, again := view.BeginFetch()
	require.False(t, again, "no concurrent fetches while loading")

	require.True(t, view.Complete(token, players("a", "b", "c", "montreal 1", "montreal 2"), time.Now()))
	require.Equal(t, roster.StatusReady, view.Status())
	// untagged has the most members but is always sorted last.
	require.Equal(t, "montreal", view.Active())
	require.Len(t, view.ActivePlayers(), 2)
}

func TestViewFirstFetchUntaggedOnly(t *testing.T) {
	view := roster.NewView(testMappings())
	token, _ := view.BeginFetch()
	require.True(t, view.Complete(token, players("a", "b"), time.Now()))
	require.Equal(t, roster.Untagged, view.Active())
}

func TestViewSearchComposesWithGrouping(t *testing.T) {
	view := roster.NewView(testMappings())
	token, _ := view.BeginFetch()
	view.Complete(token, []roster.PlayerRecord{
		{ID: 177, Name: "montreal one"},
		{ID: 200, Name: "montreal two"},
		{ID: 377, Name: "frz three"},
	}, time.Now())
	require.Equal(t, "montreal", view.Active())

	view.SetSearch("77")
	require.True(t, view.Searching())
	require.Len(t, view.Filtered(), 2)
	require.Equal(t, 1, view.Grouping().Count("montreal"))
	require.Equal(t, 1, view.Grouping().Count("forza"))

	view.SetSearch("")
	require.Len(t, view.Filtered(), 3)
	require.Equal(t, 2, view.Grouping().Count("montreal"))
}

func TestViewEmptyActiveDoesNotSwitch(t *testing.T) {
	view := roster.NewView(testMappings())
	token, _ := view.BeginFetch()
	view.Complete(token, players("montreal 1", "montreal 2", "frz 1"), time.Now())
	require.Equal(t, "montreal", view.Active())

	view.SetSearch("frz")
	require.Equal(t, "montreal", view.Active())
	require.Empty(t, view.ActivePlayers())
	require.Equal(t, []roster.TagCount{{Key: "forza", Display: "Forza", Count: 1}}, view.Tags())
}

func TestViewRetry(t *testing.T) {
	data := players("montreal 1", "frz 1", "frz 2", "other")

	first := roster.NewView(testMappings())
	token, _ := first.BeginFetch()
	require.True(t, first.Complete(token, data, time.Now()))

	retried := roster.NewView(testMappings())
	failToken, _ := retried.BeginFetch()
	require.True(t, retried.Fail(failToken, errors.New("connection refused")))
	require.Equal(t, roster.StatusError, retried.Status())
	require.Equal(t, "connection refused", retried.Error())

	retryToken, ok := retried.BeginFetch()
	require.True(t, ok)
	require.Equal(t, roster.StatusLoading, retried.Status())
	require.True(t, retried.Complete(retryToken, data, time.Now()))
	require.Equal(t, roster.StatusReady, retried.Status())

	require.Equal(t, first.Active(), retried.Active())
	require.Equal(t, first.Tags(), retried.Tags())
	require.Equal(t, first.Grouping(), retried.Grouping())
}

func TestViewStaleResultIgnored(t *testing.T) {
	view := roster.NewView(testMappings())
	stale, _ := view.BeginFetch()
	view.Reset()

	current, ok := view.BeginFetch()
	require.True(t, ok)
	require.NotEqual(t, stale, current)

	require.False(t, view.Complete(stale, players("frz late"), time.Now()))
	require.False(t, view.Fail(stale, errors.New("late")))
	require.Equal(t, roster.StatusLoading, view.Status())

	require.True(t, view.Complete(current, players("montreal"), time.Now()))
	require.Equal(t, "montreal", view.Active())
}

func TestViewCycleActive(t *testing.T) {
	view := roster.NewView(testMappings())
	token, _ := view.BeginFetch()
	view.Complete(token, players("montreal 1", "montreal 2", "frz 1", "other"), time.Now())
	require.Equal(t, "montreal", view.Active())

	view.CycleActive(true)
	require.Equal(t, "forza", view.Active())
	view.CycleActive(true)
	require.Equal(t, roster.Untagged, view.Active())
	view.CycleActive(true)
	require.Equal(t, "montreal", view.Active())
	view.CycleActive(false)
	require.Equal(t, roster.Untagged, view.Active())
}

func TestPlayerIdentifier(t *testing.T) {
	record := roster.PlayerRecord{Identifiers: []string{"license:abc", "steam:110000100000001"}}
	value, found := record.Identifier("steam")
	require.True(t, found)
	require.Equal(t, "110000100000001", value)

	_, found = record.Identifier("discord")
	require.False(t, found)
}
