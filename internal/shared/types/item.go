package types

// ItemKind is the closed set of placeable item kinds.
type ItemKind string

const (
	KindApplication ItemKind = "application"
	KindShortcut    ItemKind = "shortcut"
	KindWidget      ItemKind = "widget"
	KindFolder      ItemKind = "folder"
)

// Item describes a placeable item as reported by the host surface or the
// catalog, before identity resolution. Fields are populated per kind:
// Component and User always, ShortcutID for shortcuts, Provider for widgets,
// FolderID for folders.
type Item struct {
	Kind       ItemKind `json:"kind"`
	Component  string   `json:"component"`
	User       string   `json:"user"`
	ShortcutID string   `json:"shortcut_id,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	FolderID   string   `json:"folder_id,omitempty"`
	Label      string   `json:"label,omitempty"`
	Location   Location `json:"location"`
}

// ResolvedItem is a displayable record derived from a StableKey plus catalog
// data. It is recomputed whenever the catalog changes and carries a slot
// assignment (Rank, Cell) only while placed.
type ResolvedItem struct {
	Key   StableKey `json:"key"`
	Kind  ItemKind  `json:"kind"`
	Label string    `json:"label"`
	Icon  string    `json:"icon,omitempty"`
	Rank  int       `json:"rank"`
	Cell  Cell      `json:"cell"`
}

// Cell is a grid coordinate on the shelf or workspace.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}
