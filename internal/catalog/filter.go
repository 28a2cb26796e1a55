package catalog

import "strings"

// Query is a parsed text filter: whitespace-separated terms with AND
// semantics. A term without diacritics matches the folded search key
// (accent-insensitive); a term carrying diacritics matches literally.
type Query struct {
	terms []queryTerm
}

type queryTerm struct {
	text   string
	folded bool
}

// ParseQuery splits and classifies the raw query text.
func ParseQuery(text string) Query {
	var q Query
	for _, field := range strings.Fields(text) {
		lower := strings.ToLower(field)
		folded := Fold(lower)
		if folded == lower {
			q.terms = append(q.terms, queryTerm{text: folded, folded: true})
		} else {
			q.terms = append(q.terms, queryTerm{text: lower, folded: false})
		}
	}
	return q
}

// Empty reports whether the query matches everything.
func (q Query) Empty() bool { return len(q.terms) == 0 }

// Matches reports whether every term occurs in the item's search key.
func (q Query) Matches(it Item) bool {
	for _, term := range q.terms {
		key := it.SearchKey
		if term.folded {
			key = it.SearchKeyFolded
		}
		if !strings.Contains(key, term.text) {
			return false
		}
	}
	return true
}

// Apply returns the visible subsequence of a render sequence. The empty
// query short-circuits to the full sequence.
func (q Query) Apply(seq Sequence) []Item {
	if q.Empty() {
		return seq.Items
	}
	visible := make([]Item, 0, len(seq.Items))
	for _, it := range seq.Items {
		if q.Matches(it) {
			visible = append(visible, it)
		}
	}
	return visible
}
