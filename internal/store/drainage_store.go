// Package store is the data access layer for drainage records.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"storm_drain/internal/models"
	"storm_drain/internal/risk"
)

// DrainageStore wraps the gorm handle with the queries the pipeline needs.
// Recency is always created_at DESC; the newest row per location is the
// authoritative state of the asset.
type DrainageStore struct {
	db *gorm.DB
}

func NewDrainageStore(db *gorm.DB) *DrainageStore {
	return &DrainageStore{db: db}
}

// Insert appends one scan record. One ingestion call = one row, never upserted.
func (s *DrainageStore) Insert(ctx context.Context, rec *models.DrainageRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// LatestByLocation returns the newest record for a location, or (nil, nil)
// when the location has never been scanned.
func (s *DrainageStore) LatestByLocation(ctx context.Context, locationID string) (*models.DrainageRecord, error) {
	var rec models.DrainageRecord
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns the newest records across all locations.
func (s *DrainageStore) Recent(ctx context.Context, limit int) ([]models.DrainageRecord, error) {
	var recs []models.DrainageRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// RecentByLocation returns the newest records for one location.
func (s *DrainageStore) RecentByLocation(ctx context.Context, locationID string, limit int) ([]models.DrainageRecord, error) {
	var recs []models.DrainageRecord
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// RecentDeduped returns at most limit records, one per location (its newest),
// in overall recency order. Over-fetches 3x to compensate for rows lost to
// dedup; map views use this to avoid stacked markers.
func (s *DrainageStore) RecentDeduped(ctx context.Context, limit int) ([]models.DrainageRecord, error) {
	rows, err := s.Recent(ctx, limit*3)
	if err != nil {
		return nil, err
	}
	return DedupeByLocation(rows, limit), nil
}

// DedupeByLocation keeps the first (newest, given newest-first input) row per
// location, up to limit.
func DedupeByLocation(rows []models.DrainageRecord, limit int) []models.DrainageRecord {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.DrainageRecord, 0, limit)
	for _, r := range rows {
		if _, ok := seen[r.LocationID]; ok {
			continue
		}
		seen[r.LocationID] = struct{}{}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Unanalyzed returns every record the risk analyzer has not touched yet.
func (s *DrainageStore) Unanalyzed(ctx context.Context) ([]models.DrainageRecord, error) {
	var recs []models.DrainageRecord
	err := s.db.WithContext(ctx).
		Where("ml_updated_at IS NULL").
		Find(&recs).Error
	return recs, err
}

// ApplyAssessment patches the analytics columns of one record in a single
// UPDATE keyed by row id. Older rows for the same location are never touched.
func (s *DrainageStore) ApplyAssessment(ctx context.Context, recordID uint, a risk.Assessment, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.DrainageRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"cri":               a.CRI,
			"priority_score":    a.PriorityScore,
			"risk_reason":       a.RiskReason,
			"flood_probability": a.FloodProbability,
			"ml_updated_at":     now,
		}).Error
}
