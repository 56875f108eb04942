package models

import (
	"time"
)

// Elevation classes for a drain site. Lowland sites flood first, so the risk
// model boosts their score.
const (
	ElevationHighland = "highland"
	ElevationLowland  = "lowland"
)

// Defect states reported by the scanning app.
const (
	DefectNone       = "none"
	DefectCrack      = "crack"
	DefectSubsidence = "subsidence"
	DefectOther      = "other"
)

// DrainageRecord is one scan/cleaning event for a physical storm drain.
// One ingestion call = one row; rows accumulate per location_id and the most
// recent row (by created_at) is the authoritative state of the asset.
//
// The record merges three groups of data:
//   - Master: reference data for the asset (address, elevation, max height)
//   - Session: per-scan data (GPS fix, cleaned_at, defect status)
//   - Analytics: values written back by the risk analyzer, nil until the
//     first analysis run so "not analyzed" is distinguishable from zero
type DrainageRecord struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LocationID string    `gorm:"column:location_id;size:64;index;not null" json:"location_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	// Master
	Name          string   `gorm:"column:name;size:256" json:"name,omitempty"`
	Address       string   `gorm:"column:address;size:512" json:"address,omitempty"`
	ElevationType string   `gorm:"column:elevation_type;size:32" json:"elevation_type,omitempty"`
	MaxHeightMM   *float64 `gorm:"column:max_height_mm" json:"max_height_mm,omitempty"`

	// Session. Each new scan's device GPS fix overwrites last_measured_lat/lng
	// (GPS-priority policy).
	Lat             *float64   `gorm:"column:lat" json:"lat,omitempty"`
	Lng             *float64   `gorm:"column:lng" json:"lng,omitempty"`
	LastMeasuredLat *float64   `gorm:"column:last_measured_lat" json:"last_measured_lat,omitempty"`
	LastMeasuredLng *float64   `gorm:"column:last_measured_lng" json:"last_measured_lng,omitempty"`
	CleanedAt       *time.Time `gorm:"column:cleaned_at" json:"cleaned_at,omitempty"`
	DefectStatus    string     `gorm:"column:defect_status;size:64" json:"defect_status,omitempty"`

	// Raw measurement (after-cleaning or single-shot volume).
	VolumeL *float64 `gorm:"column:volume_l" json:"volume_L,omitempty"`

	// Analytics, written only by the risk analyzer.
	TrashVolL        *float64   `gorm:"column:trash_vol_l" json:"trash_vol_L,omitempty"`
	CycleDays        *int       `gorm:"column:cycle_days" json:"cycle_days,omitempty"`
	CRI              *int       `gorm:"column:cri" json:"cri,omitempty"`
	PriorityScore    *int       `gorm:"column:priority_score" json:"priority_score,omitempty"`
	RiskReason       string     `gorm:"column:risk_reason;type:text" json:"risk_reason,omitempty"`
	FloodProbability *float64   `gorm:"column:flood_probability" json:"flood_probability,omitempty"`
	FootTrafficScore *float64   `gorm:"column:foot_traffic_score" json:"foot_traffic_score,omitempty"`
	DamageScale      string     `gorm:"column:damage_scale;size:64" json:"damage_scale,omitempty"`
	MLUpdatedAt      *time.Time `gorm:"column:ml_updated_at" json:"ml_updated_at,omitempty"`
}

func (DrainageRecord) TableName() string { return "drainage_records" }

// Analyzed reports whether the analytics fields have been filled in at least once.
func (r *DrainageRecord) Analyzed() bool {
	return r.MLUpdatedAt != nil
}
