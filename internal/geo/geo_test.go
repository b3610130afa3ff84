package geo

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtent_Validate(t *testing.T) {
	assert.NoError(t, NewExtent(-164, 18, -154, 24).Validate())

	tests := []struct {
		name   string
		extent Extent
	}{
		{"equal longitudes", NewExtent(-150, 18, -150, 24)},
		{"swapped longitudes", NewExtent(-154, 18, -164, 24)},
		{"swapped latitudes", NewExtent(-164, 24, -154, 18)},
		{"nan", NewExtent(math.NaN(), 18, -154, 24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.extent.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidExtent))
		})
	}
}

func TestExtent_ContainsAndCenter(t *testing.T) {
	e := NewExtent(-164, 18, -154, 24)

	assert.True(t, e.Contains(20, -156))
	assert.True(t, e.Contains(18, -164), "edges are inside")
	assert.False(t, e.Contains(38, -100))

	assert.Equal(t, LatLon{Lat: 21, Lon: -159}, e.Center())
	assert.Equal(t, "[[-164, 18], [-154, 24]]", e.String())
}

func TestExtent_Outline(t *testing.T) {
	e := NewExtent(0, 0, 10, 20)
	ring := e.Outline(4)

	require.Len(t, ring, 17)
	assert.Equal(t, ring[0], ring[len(ring)-1], "ring is closed")
	assert.Equal(t, LatLon{Lat: 0, Lon: 2.5}, ring[1])
	assert.Equal(t, LatLon{Lat: 0, Lon: 10}, ring[4])
	assert.Equal(t, LatLon{Lat: 20, Lon: 10}, ring[8])

	assert.Len(t, e.Outline(0), 5)
}

func TestReadPlaces(t *testing.T) {
	data := strings.Join([]string{
		"Name,Longitude,Latitude,notes",
		"Honolulu,-157.86,21.31,capital",
		"Broken,abc,21.0,",
		"Anchorage, -149.9 , 61.2,",
	}, "\n")

	places, err := ReadPlaces(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Honolulu", places[0].Name)
	assert.Equal(t, FeaturePlace, places[0].Type)
	assert.Equal(t, LatLon{Lat: 21.31, Lon: -157.86}, *places[0].Point)
	assert.Equal(t, LatLon{Lat: 61.2, Lon: -149.9}, *places[1].Point)
}

func TestReadPlaces_MissingColumn(t *testing.T) {
	_, err := ReadPlaces(strings.NewReader("name,lon,lat\nx,1,2\n"))
	assert.ErrorContains(t, err, "missing required column: longitude")
}

func TestSplitParts(t *testing.T) {
	points := []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 5, Y: 5}, {X: 6, Y: 6}, {X: 9, Y: 9}}

	parts := splitParts([]int32{0, 3, 5}, points)

	// The last part has a single point and is dropped
	require.Len(t, parts, 2)
	assert.Equal(t, []LatLon{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}, parts[0])
	assert.Equal(t, []LatLon{{Lat: 5, Lon: 5}, {Lat: 6, Lon: 6}}, parts[1])
}

func TestFeatureType_String(t *testing.T) {
	assert.Equal(t, "StateBorder", FeatureStateBorder.String())
	assert.Equal(t, "Lake", FeatureLake.String())
	assert.Equal(t, "Unknown", FeatureType(99).String())
}
