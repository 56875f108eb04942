package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storm_drain/internal/alert"
	"storm_drain/internal/models"
)

func newExecutor(src *fakeSource, webhookURL string) *ToolExecutor {
	return NewToolExecutor(src, alert.NewNotifier(webhookURL))
}

func TestExecuteGetDrainageData(t *testing.T) {
	analyzedAt := time.Now().UTC()
	src := &fakeSource{latest: map[string]*models.DrainageRecord{
		"AA-013": {
			LocationID:       "AA-013",
			VolumeL:          fptr(80),
			CRI:              iptr(75),
			PriorityScore:    iptr(2),
			FloodProbability: fptr(0.72),
			RiskReason:       "moderate risk, inspection recommended",
			MLUpdatedAt:      &analyzedAt,
		},
	}}
	e := newExecutor(src, "")

	got := e.Execute(context.Background(), ToolGetDrainageData, `{"location_id":"AA-013"}`)

	assert.Equal(t, "AA-013", got["location_id"])
	assert.Equal(t, fptr(80), got["volume_L"])
	assert.Equal(t, iptr(75), got["cri"])
	assert.NotContains(t, got, "error")
}

func TestExecuteGetDrainageDataAwaitingAnalysis(t *testing.T) {
	// A record the analyzer has not reached yet reports placeholder analytics,
	// never nulls.
	src := &fakeSource{latest: map[string]*models.DrainageRecord{
		"AA-013": {
			LocationID: "AA-013",
			VolumeL:    fptr(80),
		},
	}}
	e := newExecutor(src, "")

	got := e.Execute(context.Background(), ToolGetDrainageData, `{"location_id":"AA-013"}`)

	assert.Equal(t, "awaiting analysis", got["risk_reason"])
	assert.Equal(t, 50, got["cri"])
	assert.Equal(t, 0, got["priority_score"])
	assert.Equal(t, 0.0, got["flood_probability"])
	assert.NotContains(t, got, "error")
}

func TestExecuteGetDrainageDataMissingLocation(t *testing.T) {
	e := newExecutor(&fakeSource{}, "")

	got := e.Execute(context.Background(), ToolGetDrainageData, `{"location_id":"X-9"}`)

	assert.Equal(t, "no data for location_id", got["error"])
	assert.Equal(t, "X-9", got["location_id"])
}

func TestExecuteMalformedArgumentsDegradeToDefaults(t *testing.T) {
	e := newExecutor(&fakeSource{}, "")

	got := e.Execute(context.Background(), ToolGetDrainageData, `{"location_id": not-json`)

	// Broken JSON must not fail the call; it just looks up the empty id.
	assert.Equal(t, "no data for location_id", got["error"])
	assert.Equal(t, "", got["location_id"])
}

func TestExecuteGenerateRiskChartPassthrough(t *testing.T) {
	e := newExecutor(&fakeSource{}, "")

	got := e.Execute(context.Background(), ToolGenerateRiskChart,
		`{"data":{"location_id":"A-01","priority_score":1}}`)

	chart, ok := got["chart_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A-01", chart["location_id"])
	assert.NotEmpty(t, got["message"])
}

func TestExecuteSendAdminAlertWithWebhook(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := newExecutor(&fakeSource{}, srv.URL)
	got := e.Execute(context.Background(), ToolSendAdminAlert, `{"message":"flood risk at AA-013"}`)

	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "flood risk at AA-013", received["text"])
}

func TestExecuteSendAdminAlertWithoutSinkIsNoOpAck(t *testing.T) {
	e := newExecutor(&fakeSource{}, "")

	got := e.Execute(context.Background(), ToolSendAdminAlert, `{"message":"anyone there?"}`)

	assert.Equal(t, true, got["ok"], "missing webhook configuration is a documented no-op, not an error")
}

func TestExecuteUnknownTool(t *testing.T) {
	e := newExecutor(&fakeSource{}, "")

	got := e.Execute(context.Background(), "reboot_city", `{}`)

	assert.Equal(t, "unknown tool: reboot_city", got["error"])
}
