// Package catalog defines the fixed beverage catalog: the mapping from a
// beverage symbol to its display emoji and Foursquare category identifier.
// The catalog is static configuration; it is never mutated at runtime.
package catalog

// Beverage is the symbolic name of a catalog entry.
type Beverage string

const (
	Beer     Beverage = "beer"
	Wisky    Beverage = "wisky"
	Wine     Beverage = "wine"
	Cocktail Beverage = "cocktail"
)

// Entry holds the presentation and search attributes of a beverage.
type Entry struct {
	Emoji string
	// CategoryID is the Foursquare venue category for this beverage.
	// https://developer.foursquare.com/docs/resources/categories
	CategoryID string
}

// Order lists beverages in keyboard display order.
var Order = []Beverage{Beer, Wisky, Wine, Cocktail}

var entries = map[Beverage]Entry{
	Beer:     {Emoji: "🍺", CategoryID: "56aa371ce4b08b9a8d57356c"},
	Wisky:    {Emoji: "🥃", CategoryID: "4bf58dd8d48988d122941735"},
	Wine:     {Emoji: "🍷", CategoryID: "4bf58dd8d48988d123941735"},
	Cocktail: {Emoji: "🍸", CategoryID: "4bf58dd8d48988d11e941735"},
}

// Lookup returns the entry for a beverage symbol.
func Lookup(b Beverage) (Entry, bool) {
	e, ok := entries[b]
	return e, ok
}

// ByEmoji resolves free text to a beverage by exact emoji equality.
// No partial or fuzzy matching is applied.
func ByEmoji(text string) (Beverage, Entry, bool) {
	for _, b := range Order {
		e := entries[b]
		if e.Emoji == text {
			return b, e, true
		}
	}
	return "", Entry{}, false
}

// Emojis returns all display emojis in stable order.
func Emojis() []string {
	out := make([]string, 0, len(Order))
	for _, b := range Order {
		out = append(out, entries[b].Emoji)
	}
	return out
}
