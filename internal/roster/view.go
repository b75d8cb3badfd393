package roster

import (
	"strings"
	"time"
)

// Status is the state of the player list fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusIdle:
		fallthrough
	default:
		return "idle"
	}
}

// Token identifies a single fetch attempt. Results carrying a token from an older attempt are discarded.
type Token uint64

// View holds the last fetched player list and derives the grouped, filtered and ordered views from it.
// It is owned by the ui event loop and must not be shared between goroutines.
type View struct {
	mappings  []TeamMapping
	status    Status
	errMsg    string
	players   []PlayerRecord
	query     string
	active    string
	token     Token
	version   uint64
	fetchedAt time.Time
	memo      memo
}

// memo caches the derived views for a single (player list version, query) pair.
type memo struct {
	valid    bool
	version  uint64
	query    string
	filtered []PlayerRecord
	grouping Grouping
	tags     []TagCount
}

// NewView returns an idle view classifying players using the mappings table.
func NewView(mappings []TeamMapping) *View {
	return &View{mappings: mappings, status: StatusIdle}
}

// Mappings returns the team table used for classification.
func (v *View) Mappings() []TeamMapping {
	return v.mappings
}

// BeginFetch transitions into the loading state and returns the token the result must be delivered
// with. Only one fetch may be in flight, and a successful fetch is final until the view is reset, so this
// returns false when loading or ready.
func (v *View) BeginFetch() (Token, bool) {
	if v.status == StatusLoading || v.status == StatusReady {
		return v.token, false
	}

	v.token++
	v.status = StatusLoading
	v.errMsg = ""

	return v.token, true
}

// Complete delivers a successful fetch result. It returns false when the token is stale. The first
// result picks the largest team as the active group, Untagged is only chosen when it is the sole group.
func (v *View) Complete(token Token, players []PlayerRecord, fetchedAt time.Time) bool {
	if token != v.token || v.status != StatusLoading {
		return false
	}

	v.players = players
	v.version++
	v.fetchedAt = fetchedAt
	v.status = StatusReady
	v.errMsg = ""

	if v.active == "" {
		if tags := v.unfilteredTags(); len(tags) > 0 {
			v.active = tags[0].Key
		}
	}

	return true
}

// Fail delivers a failed fetch result. It returns false when the token is stale.
func (v *View) Fail(token Token, err error) bool {
	if token != v.token || v.status != StatusLoading {
		return false
	}

	v.status = StatusError
	v.errMsg = "unknown error"
	if err != nil {
		v.errMsg = err.Error()
	}

	return true
}

// Reset returns the view to the idle state, discarding any in flight fetch. The active group and search
// query are kept.
func (v *View) Reset() {
	v.token++
	v.status = StatusIdle
	v.errMsg = ""
}

func (v *View) Status() Status {
	return v.status
}

// Error returns the message of the last failed fetch when in the error state.
func (v *View) Error() string {
	return v.errMsg
}

func (v *View) FetchedAt() time.Time {
	return v.fetchedAt
}

// Players returns the complete, unfiltered list of the last successful fetch.
func (v *View) Players() []PlayerRecord {
	return v.players
}

func (v *View) Query() string {
	return v.query
}

// SetSearch updates the search query. The active group is never changed by searching.
func (v *View) SetSearch(query string) {
	v.query = query
}

// Searching reports if a non-blank query is active.
func (v *View) Searching() bool {
	return strings.TrimSpace(v.query) != ""
}

func (v *View) Active() string {
	return v.active
}

// SetActive explicitly changes the active group.
func (v *View) SetActive(key string) {
	v.active = key
}

// Filtered returns the players matching the current query, or all players when no query is set.
func (v *View) Filtered() []PlayerRecord {
	v.refresh()

	return v.memo.filtered
}

// Grouping returns the classification of the filtered players.
func (v *View) Grouping() Grouping {
	v.refresh()

	return v.memo.grouping
}

// Tags returns the display ordered tags of the filtered grouping.
func (v *View) Tags() []TagCount {
	v.refresh()

	return v.memo.tags
}

// ActivePlayers returns the members of the active group under the current query. The result may be
// empty, in which case callers are expected to render an empty state rather than picking another group.
func (v *View) ActivePlayers() []PlayerRecord {
	return v.Grouping().Players(v.active)
}

// ActiveDisplay returns the display name of the active group.
func (v *View) ActiveDisplay() string {
	if v.active == "" {
		return ""
	}

	return DisplayName(v.active, v.mappings)
}

// CycleActive moves the active group forward or backward through the display ordered tags, wrapping
// around at either end.
func (v *View) CycleActive(forward bool) {
	tags := v.Tags()
	if len(tags) == 0 {
		return
	}

	current := -1
	for idx, tag := range tags {
		if tag.Key == v.active {
			current = idx

			break
		}
	}

	switch {
	case current == -1:
		v.active = tags[0].Key
	case forward:
		v.active = tags[(current+1)%len(tags)].Key
	default:
		v.active = tags[(current-1+len(tags))%len(tags)].Key
	}
}

func (v *View) unfilteredTags() []TagCount {
	return SortTags(Classify(v.players, v.mappings), v.mappings)
}

func (v *View) refresh() {
	if v.memo.valid && v.memo.version == v.version && v.memo.query == v.query {
		return
	}

	filtered := Filter(v.players, v.query)
	grouping := Classify(filtered, v.mappings)

	v.memo = memo{
		valid:    true,
		version:  v.version,
		query:    v.query,
		filtered: filtered,
		grouping: grouping,
		tags:     SortTags(grouping, v.mappings),
	}
}
