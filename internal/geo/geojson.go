// Package geo renders drainage records as GeoJSON for map clients.
package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"storm_drain/internal/models"
)

// FeatureCollection converts records into Point features. The last measured
// GPS fix wins over the device-reported one (GPS-priority policy); records
// with no position at all are skipped since the map cannot place them.
func FeatureCollection(records []models.DrainageRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for i := range records {
		f := feature(&records[i])
		if f != nil {
			fc.Features = append(fc.Features, f)
		}
	}
	return fc
}

func feature(rec *models.DrainageRecord) *geojson.Feature {
	lat, lng := position(rec)
	if lat == nil || lng == nil {
		return nil
	}

	point := geom.NewPointFlat(geom.XY, []float64{*lng, *lat})
	return &geojson.Feature{
		ID:       rec.LocationID,
		Geometry: point,
		Properties: map[string]interface{}{
			"location_id":       rec.LocationID,
			"name":              rec.Name,
			"address":           rec.Address,
			"elevation_type":    rec.ElevationType,
			"defect_status":     rec.DefectStatus,
			"cri":               rec.CRI,
			"priority_score":    rec.PriorityScore,
			"flood_probability": rec.FloodProbability,
			"risk_reason":       rec.RiskReason,
		},
	}
}

func position(rec *models.DrainageRecord) (lat, lng *float64) {
	if rec.LastMeasuredLat != nil && rec.LastMeasuredLng != nil {
		return rec.LastMeasuredLat, rec.LastMeasuredLng
	}
	return rec.Lat, rec.Lng
}
