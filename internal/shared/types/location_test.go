package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationDescriptor(t *testing.T) {
	loc := Location{
		Region: RegionHotseat,
		Screen: 0,
		Cell:   Cell{X: 3, Y: 0},
		SpanX:  1,
		SpanY:  1,
	}
	assert.Equal(t, "hotseat/0/[3,0]/[1,1]", loc.Descriptor())
}

func TestLocationRegions(t *testing.T) {
	hotseat := Location{Region: RegionHotseat}
	assert.True(t, hotseat.InHotseat())
	assert.False(t, hotseat.InFirstPage())

	firstPage := Location{Region: RegionWorkspace, Screen: FirstScreen}
	assert.False(t, firstPage.InHotseat())
	assert.True(t, firstPage.InFirstPage())

	secondPage := Location{Region: RegionWorkspace, Screen: 1}
	assert.False(t, secondPage.InFirstPage())
}
