package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/models"
	"storm_drain/internal/risk"
	"storm_drain/internal/store"
)

// IngestionController receives scan payloads from the mobile app and kicks
// off risk analysis for the scanned location.
type IngestionController struct {
	store    *store.DrainageStore
	analyzer *risk.Analyzer
}

func NewIngestionController(s *store.DrainageStore, a *risk.Analyzer) *IngestionController {
	return &IngestionController{store: s, analyzer: a}
}

// ingestionInput is one scan event. Either volume_L or the full
// before/after pair must be present; everything else is optional.
type ingestionInput struct {
	LocationID    string     `json:"location_id" binding:"required"`
	VolumeL       *float64   `json:"volume_L"`
	BeforeVolumeL *float64   `json:"before_volume_L"`
	AfterVolumeL  *float64   `json:"after_volume_L"`
	MaxHeightMM   *float64   `json:"max_height_mm"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	CleanedAt     *time.Time `json:"cleaned_at"`
	DefectStatus  string     `json:"defect_status"`
	Address       string     `json:"address"`
	ElevationType string     `json:"elevation_type"`
	Name          string     `json:"name"`
}

// Ingest persists one scan as a new row (never an upsert), acknowledges the
// app, then triggers deferred risk analysis so upload latency stays low.
func (ic *IngestionController) Ingest(c *gin.Context) {
	var input ingestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingestion payload: " + err.Error()})
		return
	}

	hasPair := input.BeforeVolumeL != nil && input.AfterVolumeL != nil
	if input.VolumeL == nil && !hasPair {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Either volume_L or both before_volume_L and after_volume_L are required",
		})
		return
	}

	rec := models.DrainageRecord{
		LocationID:    input.LocationID,
		Name:          input.Name,
		Address:       input.Address,
		ElevationType: input.ElevationType,
		MaxHeightMM:   input.MaxHeightMM,
		Lat:           input.Lat,
		Lng:           input.Lng,
		CleanedAt:     input.CleanedAt,
		DefectStatus:  input.DefectStatus,
		VolumeL:       input.VolumeL,
	}

	// The before/after pair is consumed here; only the derived trash volume
	// is persisted. The after reading doubles as the volume when the app
	// sent no explicit volume_L.
	if hasPair {
		trash := risk.DeriveTrashVolume(*input.BeforeVolumeL, *input.AfterVolumeL)
		rec.TrashVolL = &trash
		if rec.VolumeL == nil {
			rec.VolumeL = input.AfterVolumeL
		}
	}

	// GPS-priority: this scan's device fix becomes the authoritative position.
	rec.LastMeasuredLat = input.Lat
	rec.LastMeasuredLng = input.Lng

	if err := ic.store.Insert(c.Request.Context(), &rec); err != nil {
		logrus.Errorf("ingestion insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store drainage record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"message":     "data received, risk analysis scheduled",
		"location_id": input.LocationID,
	})

	// The request's own storage scope is done; analysis runs in a fresh one.
	ic.analyzer.AnalyzeDeferred(input.LocationID)
}

// Sweep analyzes every record the risk model has not touched yet.
func (ic *IngestionController) Sweep(c *gin.Context) {
	analyzed, err := ic.analyzer.SweepUnanalyzed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "analyzed": analyzed})
}
