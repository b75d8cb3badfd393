package roster

import (
	"strings"
	"unicode"

	"github.com/leighmacdonald/roster-tui/internal/normalize"
)

// matcher holds the pre-folded form of a TeamMapping so that each player name only needs to be
// folded once per classification pass.
type matcher struct {
	key       string
	canonical string
	aliases   []string
	wholeWord bool
}

func newMatchers(mappings []TeamMapping) []matcher {
	matchers := make([]matcher, 0, len(mappings))
	for _, mapping := range mappings {
		current := matcher{
			key:       mapping.CanonicalName,
			canonical: normalize.Fold(mapping.CanonicalName),
			wholeWord: mapping.WholeWord,
		}

		for _, alias := range mapping.Aliases {
			if folded := normalize.Fold(alias); folded != "" {
				current.aliases = append(current.aliases, folded)
			}
		}

		matchers = append(matchers, current)
	}

	return matchers
}

func (m matcher) matches(name string, tokens []string) bool {
	if m.canonical != "" && strings.Contains(name, m.canonical) {
		return true
	}

	for _, alias := range m.aliases {
		if m.wholeWord {
			for _, token := range tokens {
				if token == alias {
					return true
				}
			}

			continue
		}

		if strings.Contains(name, alias) {
			return true
		}
	}

	return false
}

// tokenize splits a folded name on anything that is not a letter or digit.
func tokenize(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Classify partitions players into groups keyed by the first matching TeamMapping's canonical name. The
// mapping table is evaluated in order, so when overlapping entries match the same name, the entry
// authored first wins. Players matching nothing land in the Untagged group. Member order within each
// group follows the input order.
func Classify(players []PlayerRecord, mappings []TeamMapping) Grouping {
	var (
		grouping = newGrouping()
		matchers = newMatchers(mappings)
	)

	for _, player := range players {
		grouping.add(classifyOne(player.Name, matchers), player)
	}

	return grouping
}

// Tag returns the group key the name would be classified into.
func Tag(name string, mappings []TeamMapping) string {
	return classifyOne(name, newMatchers(mappings))
}

func classifyOne(name string, matchers []matcher) string {
	folded := normalize.Fold(name)

	var tokens []string
	for _, current := range matchers {
		if current.wholeWord && tokens == nil {
			tokens = tokenize(folded)
		}

		if current.matches(folded, tokens) {
			return current.key
		}
	}

	return Untagged
}
