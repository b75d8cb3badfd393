// Package roster implements the player classification and the live roster view-state.
package roster

import (
	"strings"
)

// Untagged is the sentinel group key for players not matching any known team.
const Untagged = "zz_untagged"

// PlayerRecord is a single player entry as reported by the server status feed.
type PlayerRecord struct {
	ID          int
	Name        string
	Ping        int
	Identifiers []string
	Endpoint    string
}

// Identifier returns the value of the first identifier using the prefix, eg: "steam", "discord", "license".
func (p PlayerRecord) Identifier(prefix string) (string, bool) {
	for _, ident := range p.Identifiers {
		kind, value, found := strings.Cut(ident, ":")
		if found && kind == prefix {
			return value, true
		}
	}

	return "", false
}

// TeamMapping is a static alias table entry.
type TeamMapping struct {
	CanonicalName string   `mapstructure:"canonical_name"`
	Aliases       []string `mapstructure:"aliases"`
	DisplayName   string   `mapstructure:"display_name"`
	// WholeWord restricts alias matching to complete tokens of the player name. Short aliases
	// like "rt" would otherwise match inside unrelated words such as "heart".
	WholeWord bool `mapstructure:"whole_word"`
}

// Grouping maps group keys to their ordered members. Keys are kept in first seen order.
type Grouping struct {
	keys   []string
	groups map[string][]PlayerRecord
}

func newGrouping() Grouping {
	return Grouping{groups: map[string][]PlayerRecord{}}
}

func (g *Grouping) add(key string, player PlayerRecord) {
	if _, found := g.groups[key]; !found {
		g.keys = append(g.keys, key)
	}

	g.groups[key] = append(g.groups[key], player)
}

// Keys returns the group keys in the order they were first seen.
func (g Grouping) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)

	return keys
}

// Players returns the members of the group. A missing group returns nil.
func (g Grouping) Players(key string) []PlayerRecord {
	return g.groups[key]
}

// Count returns the number of members in the group.
func (g Grouping) Count(key string) int {
	return len(g.groups[key])
}

// Len returns the number of groups.
func (g Grouping) Len() int {
	return len(g.keys)
}

// Total returns the number of players across all groups.
func (g Grouping) Total() int {
	total := 0
	for _, players := range g.groups {
		total += len(players)
	}

	return total
}

// TagCount is a single entry of the display ordered tag list.
type TagCount struct {
	Key     string
	Display string
	Count   int
}
