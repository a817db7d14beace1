package dataprocessing

import (
	"strings"

	"sheetrows/pkg/contracts/domain"
)

// DefaultIdentityLabels are the header labels probed for a row's owner, in order.
var DefaultIdentityLabels = []string{"電郵", "email", "Email"}

// IdentityMatcher scopes rows to one user by their identity column.
type IdentityMatcher struct {
	Labels []string
}

// NewIdentityMatcher returns a matcher probing labels in order. An empty list
// falls back to DefaultIdentityLabels.
func NewIdentityMatcher(labels []string) IdentityMatcher {
	if len(labels) == 0 {
		labels = DefaultIdentityLabels
	}
	cp := make([]string, len(labels))
	copy(cp, labels)
	return IdentityMatcher{Labels: cp}
}

// Identity returns the value of the first candidate label that is present and
// non-empty in the row, or "".
func (m IdentityMatcher) Identity(row domain.Row) string {
	for _, label := range m.Labels {
		if v := row.Value(label); v != "" {
			return v
		}
	}
	return ""
}

// Matches reports whether the row belongs to target, ignoring case. An empty
// identity on either side never matches.
func (m IdentityMatcher) Matches(row domain.Row, target string) bool {
	if target == "" {
		return false
	}
	id := m.Identity(row)
	if id == "" {
		return false
	}
	return strings.ToLower(id) == strings.ToLower(target)
}

// Filter returns the rows belonging to target in their original order.
func (m IdentityMatcher) Filter(rows []domain.Row, target string) []domain.Row {
	matched := make([]domain.Row, 0)
	if target == "" {
		return matched
	}
	for _, row := range rows {
		if m.Matches(row, target) {
			matched = append(matched, row)
		}
	}
	return matched
}
