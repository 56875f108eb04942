// Package risk derives the composite risk index (CRI) and related analytics
// for a storm drain from its most recent scan.
package risk

import (
	"math"
	"strings"

	"storm_drain/internal/models"
)

const (
	// Reference trash volume treated as "completely full" (litres).
	fullTrashVolumeL = 150.0

	// LowlandCRIBoost is the fixed CRI bump for low-elevation sites, where
	// standing water has the highest flood consequence.
	LowlandCRIBoost = 15
)

// Assessment is the analytics output for a single record.
type Assessment struct {
	FillRatio        float64
	CRI              int     // 0-100
	PriorityScore    int     // 1 = most urgent, 3 = least
	FloodProbability float64 // 0-1, rounded to 3 decimals
	RiskReason       string
}

// Score computes the risk assessment from the record's raw measurements.
// Pure function; callers persist the result separately.
//
// Fill ratio sources, in priority order:
//  1. trash_vol_L (point-cloud delta measured at ingestion)
//  2. volume_L scaled by max_height_mm, when both are present and non-zero
//  3. zero, when neither measurement exists
func Score(rec *models.DrainageRecord) Assessment {
	fill := fillRatio(rec)
	lowland := isLowland(rec.ElevationType)

	cri := int(fill * 100)
	if lowland {
		cri += LowlandCRIBoost
	}
	if cri > 100 {
		cri = 100
	}

	priority := 3
	switch {
	case cri >= 80:
		priority = 1
	case cri >= 50:
		priority = 2
	}

	flood := math.Min(1.0, fill*1.2)
	flood = math.Round(flood*1000) / 1000

	return Assessment{
		FillRatio:        fill,
		CRI:              cri,
		PriorityScore:    priority,
		FloodProbability: flood,
		RiskReason:       reason(lowland, fill),
	}
}

func fillRatio(rec *models.DrainageRecord) float64 {
	if rec.TrashVolL != nil {
		return math.Min(1.0, *rec.TrashVolL/fullTrashVolumeL)
	}
	var volume, height float64
	if rec.VolumeL != nil {
		volume = *rec.VolumeL
	}
	if rec.MaxHeightMM != nil {
		height = *rec.MaxHeightMM
	}
	if volume == 0 || height == 0 {
		return 0
	}
	return math.Min(1.0, (volume/100)*(height/200))
}

func isLowland(elevationType string) bool {
	return strings.EqualFold(strings.TrimSpace(elevationType), models.ElevationLowland)
}

// reason picks the recommended action text. First matching branch wins, so a
// lowland site over half full always gets the immediate-inspection wording.
func reason(lowland bool, fill float64) string {
	switch {
	case lowland && fill > 0.5:
		return "immediate inspection recommended: lowland site with excess debris"
	case fill > 0.7:
		return "excess volume and high foot traffic"
	case fill > 0.4:
		return "moderate risk, inspection recommended"
	default:
		return "relatively healthy"
	}
}

// DeriveTrashVolume converts a before/after volume pair into the stored trash
// volume, flooring at zero so a noisy pair never yields a negative reading.
func DeriveTrashVolume(beforeL, afterL float64) float64 {
	if afterL <= beforeL {
		return 0
	}
	return afterL - beforeL
}
