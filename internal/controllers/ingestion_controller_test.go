package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newIngestionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Validation rejects before the store or analyzer is touched, so nil
	// dependencies are fine for these cases.
	ic := NewIngestionController(nil, nil)
	r.POST("/ingestion/drainage", ic.Ingest)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestIngestRejectsMissingLocationID(t *testing.T) {
	r := newIngestionRouter()
	w := postJSON(r, "/ingestion/drainage", `{"volume_L": 80}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestRejectsMissingVolumes(t *testing.T) {
	r := newIngestionRouter()

	cases := []string{
		`{"location_id":"A-01"}`,
		`{"location_id":"A-01","before_volume_L":100}`,
		`{"location_id":"A-01","after_volume_L":140}`,
	}
	for _, body := range cases {
		w := postJSON(r, "/ingestion/drainage", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %s must be rejected", body)
		assert.Contains(t, w.Body.String(), "volume")
	}
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	r := newIngestionRouter()
	w := postJSON(r, "/ingestion/drainage", `{"location_id": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, defaultListLimit, parseLimit(""))
	assert.Equal(t, defaultListLimit, parseLimit("abc"))
	assert.Equal(t, defaultListLimit, parseLimit("-3"))
	assert.Equal(t, 20, parseLimit("20"))
	assert.Equal(t, maxListLimit, parseLimit("999"))
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
