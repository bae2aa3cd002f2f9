package identity

import (
	"strings"

	"github.com/hotshelf/backend/internal/shared/types"
)

// FromItem returns the stable key identifying an item, or ok=false when the
// item has no resolvable target (a widget without a provider, a folder).
func FromItem(item types.Item) (types.StableKey, bool) {
	switch item.Kind {
	case types.KindApplication:
		if item.Component == "" {
			return types.StableKey{}, false
		}
		return types.StableKey{Component: item.Component, User: item.User}, true
	case types.KindShortcut:
		if item.Component == "" || item.ShortcutID == "" {
			return types.StableKey{}, false
		}
		return types.StableKey{
			Component:  item.Component,
			User:       item.User,
			ShortcutID: item.ShortcutID,
		}, true
	case types.KindWidget:
		if item.Provider == "" {
			return types.StableKey{}, false
		}
		return types.StableKey{Component: item.Provider, User: item.User}, true
	case types.KindFolder:
		// Folders have no component identity; contents are tracked per item.
		return types.StableKey{}, false
	}
	return types.StableKey{}, false
}

// Target describes an item to the ranking service.
type Target struct {
	ID        string `json:"id"`
	Package   string `json:"package"`
	ClassName string `json:"class_name,omitempty"`
	User      string `json:"user"`
}

// TargetFromItem builds the external target for an item, namespaced per kind
// (app:, shortcut:, widget:, folder:). ok=false when the item is untrackable.
func TargetFromItem(item types.Item) (Target, bool) {
	switch item.Kind {
	case types.KindApplication:
		if item.Component == "" {
			return Target{}, false
		}
		pkg, class := splitComponent(item.Component)
		return Target{ID: "app:" + pkg, Package: pkg, ClassName: class, User: item.User}, true
	case types.KindShortcut:
		if item.Component == "" || item.ShortcutID == "" {
			return Target{}, false
		}
		pkg, _ := splitComponent(item.Component)
		return Target{ID: "shortcut:" + item.ShortcutID, Package: pkg, User: item.User}, true
	case types.KindWidget:
		if item.Provider == "" {
			return Target{}, false
		}
		pkg, class := splitComponent(item.Provider)
		return Target{ID: "widget:" + pkg, Package: pkg, ClassName: class, User: item.User}, true
	case types.KindFolder:
		return Target{ID: "folder:" + item.FolderID, User: item.User}, true
	}
	return Target{}, false
}

// TargetFromKey builds the external target for a keyed item.
func TargetFromKey(key types.StableKey) Target {
	pkg, class := splitComponent(key.Component)
	if key.ShortcutID != "" {
		return Target{ID: "shortcut:" + key.ShortcutID, Package: pkg, User: key.User}
	}
	return Target{ID: "app:" + pkg, Package: pkg, ClassName: class, User: key.User}
}

// BlockTarget is the placeholder target used to communicate occupied cells
// whose contents cannot be described to the ranking service.
func BlockTarget() Target {
	return Target{ID: "block"}
}

// splitComponent splits "package/class" component identifiers. The class
// part is empty when the identifier names only a package.
func splitComponent(component string) (pkg, class string) {
	pkg, class, _ = strings.Cut(component, "/")
	return pkg, class
}
