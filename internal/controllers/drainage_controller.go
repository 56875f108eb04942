package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/cache"
	"storm_drain/internal/geo"
	"storm_drain/internal/models"
	"storm_drain/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	listCacheTTL     = 5 * time.Second
)

// DrainageController serves read queries for the web map and dashboards.
type DrainageController struct {
	store *store.DrainageStore
	cache *cache.Service
}

func NewDrainageController(s *store.DrainageStore, c *cache.Service) *DrainageController {
	return &DrainageController{store: s, cache: c}
}

// List returns the latest record per location, newest first. Duplicate
// locations are collapsed so the map renders one marker per asset.
func (dc *DrainageController) List(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	cacheKey := fmt.Sprintf("drainage:list:%d", limit)

	if dc.cache.Available() {
		var cached []models.DrainageRecord
		if err := dc.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached != nil {
			c.JSON(http.StatusOK, gin.H{"data": cached})
			return
		}
	}

	rows, err := dc.store.RecentDeduped(c.Request.Context(), limit)
	if err != nil {
		logrus.Errorf("drainage list query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drainage records"})
		return
	}

	if dc.cache.Available() {
		if err := dc.cache.Set(c.Request.Context(), cacheKey, rows, listCacheTTL); err != nil {
			logrus.Debugf("list cache set failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GeoJSON returns the deduped fleet as a Point FeatureCollection for map
// clients.
func (dc *DrainageController) GeoJSON(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	rows, err := dc.store.RecentDeduped(c.Request.Context(), limit)
	if err != nil {
		logrus.Errorf("drainage geojson query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drainage records"})
		return
	}

	c.JSON(http.StatusOK, geo.FeatureCollection(rows))
}

// GetByLocation returns the single latest record for one drain.
func (dc *DrainageController) GetByLocation(c *gin.Context) {
	locationID := c.Param("location_id")

	rec, err := dc.store.LatestByLocation(c.Request.Context(), locationID)
	if err != nil {
		logrus.Errorf("drainage lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching drainage record"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data for location_id", "location_id": locationID})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}
