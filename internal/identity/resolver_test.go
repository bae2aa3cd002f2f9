package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotshelf/backend/internal/shared/types"
)

func TestFromItemApplication(t *testing.T) {
	key, ok := FromItem(types.Item{
		Kind:      types.KindApplication,
		Component: "com.example/ui.Main",
		User:      "0",
	})
	assert.True(t, ok)
	assert.Equal(t, types.StableKey{Component: "com.example/ui.Main", User: "0"}, key)

	_, ok = FromItem(types.Item{Kind: types.KindApplication})
	assert.False(t, ok)
}

func TestFromItemShortcut(t *testing.T) {
	key, ok := FromItem(types.Item{
		Kind:       types.KindShortcut,
		Component:  "com.example/ui.Main",
		User:       "0",
		ShortcutID: "compose",
	})
	assert.True(t, ok)
	assert.Equal(t, "compose", key.ShortcutID)

	// A shortcut without its ID is not addressable.
	_, ok = FromItem(types.Item{
		Kind:      types.KindShortcut,
		Component: "com.example/ui.Main",
	})
	assert.False(t, ok)
}

func TestFromItemWidgetUsesProvider(t *testing.T) {
	key, ok := FromItem(types.Item{
		Kind:     types.KindWidget,
		Provider: "com.example/widget.Clock",
		User:     "0",
	})
	assert.True(t, ok)
	assert.Equal(t, "com.example/widget.Clock", key.Component)
}

func TestFromItemFolderHasNoIdentity(t *testing.T) {
	_, ok := FromItem(types.Item{Kind: types.KindFolder, FolderID: "42"})
	assert.False(t, ok)
}

func TestTargetNamespaces(t *testing.T) {
	app, ok := TargetFromItem(types.Item{
		Kind:      types.KindApplication,
		Component: "com.example/ui.Main",
		User:      "0",
	})
	assert.True(t, ok)
	assert.Equal(t, "app:com.example", app.ID)
	assert.Equal(t, "com.example", app.Package)
	assert.Equal(t, "ui.Main", app.ClassName)

	shortcut, ok := TargetFromItem(types.Item{
		Kind:       types.KindShortcut,
		Component:  "com.example/ui.Main",
		ShortcutID: "compose",
	})
	assert.True(t, ok)
	assert.Equal(t, "shortcut:compose", shortcut.ID)

	widget, ok := TargetFromItem(types.Item{
		Kind:     types.KindWidget,
		Provider: "com.example/widget.Clock",
	})
	assert.True(t, ok)
	assert.Equal(t, "widget:com.example", widget.ID)

	folder, ok := TargetFromItem(types.Item{Kind: types.KindFolder, FolderID: "42"})
	assert.True(t, ok)
	assert.Equal(t, "folder:42", folder.ID)
}

func TestTargetFromKey(t *testing.T) {
	app := TargetFromKey(types.StableKey{Component: "com.example/ui.Main", User: "0"})
	assert.Equal(t, "app:com.example", app.ID)

	shortcut := TargetFromKey(types.StableKey{
		Component:  "com.example/ui.Main",
		User:       "0",
		ShortcutID: "compose",
	})
	assert.Equal(t, "shortcut:compose", shortcut.ID)
}

func TestBlockTarget(t *testing.T) {
	assert.Equal(t, "block", BlockTarget().ID)
}
