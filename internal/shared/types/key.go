package types

import "strings"

// StableKey identifies an item independent of display state. Equality is
// structural on (Component, User, ShortcutID). Immutable once created.
type StableKey struct {
	Component  string `json:"component"`
	User       string `json:"user"`
	ShortcutID string `json:"shortcut_id,omitempty"`
}

// IsZero reports whether the key is unset.
func (k StableKey) IsZero() bool {
	return k.Component == "" && k.User == "" && k.ShortcutID == ""
}

// String serializes the key in the cache line format:
// "component#user" or "component#user/shortcutID".
func (k StableKey) String() string {
	var b strings.Builder
	b.WriteString(k.Component)
	b.WriteByte('#')
	b.WriteString(k.User)
	if k.ShortcutID != "" {
		b.WriteByte('/')
		b.WriteString(k.ShortcutID)
	}
	return b.String()
}

// ParseKey parses the cache line format. Returns ok=false for malformed
// input; callers drop such lines silently.
func ParseKey(s string) (StableKey, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StableKey{}, false
	}
	component, rest, found := strings.Cut(s, "#")
	if !found || component == "" || rest == "" {
		return StableKey{}, false
	}
	user, shortcut, _ := strings.Cut(rest, "/")
	if user == "" {
		return StableKey{}, false
	}
	return StableKey{Component: component, User: user, ShortcutID: shortcut}, true
}
