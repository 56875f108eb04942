package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storm_drain/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestFeatureCollectionPrefersLastMeasuredPosition(t *testing.T) {
	records := []models.DrainageRecord{
		{
			LocationID:      "A-01",
			Lat:             fptr(37.50),
			Lng:             fptr(127.00),
			LastMeasuredLat: fptr(37.51),
			LastMeasuredLng: fptr(127.01),
			CRI:             iptr(75),
		},
	}

	fc := FeatureCollection(records)
	require.Len(t, fc.Features, 1)

	coords := fc.Features[0].Geometry.FlatCoords()
	assert.Equal(t, 127.01, coords[0], "GeoJSON is lng-first")
	assert.Equal(t, 37.51, coords[1])
	assert.Equal(t, "A-01", fc.Features[0].Properties["location_id"])
}

func TestFeatureCollectionSkipsUnpositionedRecords(t *testing.T) {
	records := []models.DrainageRecord{
		{LocationID: "NO-GPS"},
		{LocationID: "B-02", Lat: fptr(37.49), Lng: fptr(126.99)},
	}

	fc := FeatureCollection(records)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "B-02", fc.Features[0].Properties["location_id"])
}

func TestFeatureCollectionMarshalsAsGeoJSON(t *testing.T) {
	records := []models.DrainageRecord{
		{LocationID: "A-01", Lat: fptr(37.50), Lng: fptr(127.00), PriorityScore: iptr(1)},
	}

	raw, err := json.Marshal(FeatureCollection(records))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded["type"])
}

func TestFeatureCollectionEmpty(t *testing.T) {
	raw, err := json.Marshal(FeatureCollection(nil))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"features":[]`)
}
