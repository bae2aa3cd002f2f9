package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStringFormat(t *testing.T) {
	key := StableKey{Component: "com.example/ui.Main", User: "0"}
	assert.Equal(t, "com.example/ui.Main#0", key.String())

	key.ShortcutID = "compose"
	assert.Equal(t, "com.example/ui.Main#0/compose", key.String())
}

func TestParseKeyRoundTrip(t *testing.T) {
	keys := []StableKey{
		{Component: "com.example/ui.Main", User: "0"},
		{Component: "com.example/ui.Main", User: "10", ShortcutID: "compose"},
	}
	for _, key := range keys {
		parsed, ok := ParseKey(key.String())
		assert.True(t, ok)
		assert.Equal(t, key, parsed)
	}
}

func TestParseKeyMalformed(t *testing.T) {
	for _, line := range []string{"", "   ", "no-separator", "#0", "com.example#"} {
		_, ok := ParseKey(line)
		assert.False(t, ok, "expected %q to be rejected", line)
	}
}

func TestParseKeyTrimsWhitespace(t *testing.T) {
	parsed, ok := ParseKey("  com.example/ui.Main#0\r")
	assert.True(t, ok)
	assert.Equal(t, "com.example/ui.Main", parsed.Component)
}

func TestKeyEqualityIgnoresDisplayState(t *testing.T) {
	// Two keys with the same identity are equal regardless of how the
	// items render.
	a := StableKey{Component: "com.example/ui.Main", User: "0"}
	b := StableKey{Component: "com.example/ui.Main", User: "0"}
	assert.True(t, a == b)
	assert.False(t, a.IsZero())
	assert.True(t, StableKey{}.IsZero())
}
