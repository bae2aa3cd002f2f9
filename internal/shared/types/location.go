package types

import "fmt"

// Region names the area of the launcher surface an item lives in.
type Region string

const (
	RegionNone      Region = ""
	RegionHotseat   Region = "hotseat"
	RegionWorkspace Region = "workspace"
)

// FirstScreen marks the workspace page that participates in pin tracking.
const FirstScreen = 0

// Location is a concrete placement: region, screen, cell, and span.
type Location struct {
	Region Region `json:"region"`
	Screen int    `json:"screen"`
	Cell   Cell   `json:"cell"`
	SpanX  int    `json:"span_x"`
	SpanY  int    `json:"span_y"`
}

// InHotseat reports whether the location is on the shelf.
func (l Location) InHotseat() bool {
	return l.Region == RegionHotseat
}

// InFirstPage reports whether the location is on the first workspace page.
func (l Location) InFirstPage() bool {
	return l.Region == RegionWorkspace && l.Screen == FirstScreen
}

// Descriptor serializes the location for ranking service events:
// "region/screen/[x,y]/[spanX,spanY]".
func (l Location) Descriptor() string {
	return fmt.Sprintf("%s/%d/[%d,%d]/[%d,%d]",
		l.Region, l.Screen, l.Cell.X, l.Cell.Y, l.SpanX, l.SpanY)
}
