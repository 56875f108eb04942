// Package agent drives the chat pipeline: intent classification, context
// retrieval, prompt synthesis and the bounded tool round-trip with the LLM.
package agent

import (
	"context"
	"fmt"
	"strings"

	"storm_drain/internal/models"
)

// contextLimit bounds how many records are rendered into the prompt.
const contextLimit = 20

// EmptyStoreContext is the sentinel context block used when no records exist
// yet. It embeds neutral analytics defaults so the prompt stays well-formed.
const EmptyStoreContext = `[no drainage data in store] analytics defaults: priority_score=0 risk_reason="awaiting analysis" flood_probability=0.0 cri=50`

// RecordSource is the slice of the record store the agent reads from.
type RecordSource interface {
	LatestByLocation(ctx context.Context, locationID string) (*models.DrainageRecord, error)
	Recent(ctx context.Context, limit int) ([]models.DrainageRecord, error)
	RecentByLocation(ctx context.Context, locationID string, limit int) ([]models.DrainageRecord, error)
}

// BuildContext renders the most recent records (optionally filtered to one
// location) as a flat one-line-per-record block for prompt inclusion, newest
// first. An empty store yields the sentinel block rather than an error.
func BuildContext(ctx context.Context, src RecordSource, locationID string) (string, error) {
	var (
		rows []models.DrainageRecord
		err  error
	)
	if locationID != "" {
		rows, err = src.RecentByLocation(ctx, locationID, contextLimit)
	} else {
		rows, err = src.Recent(ctx, contextLimit)
	}
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return EmptyStoreContext, nil
	}

	lines := make([]string, 0, len(rows))
	for i := range rows {
		lines = append(lines, renderRecord(&rows[i]))
	}
	return strings.Join(lines, "\n"), nil
}

func renderRecord(r *models.DrainageRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "location_id=%s", r.LocationID)
	fmt.Fprintf(&b, " volume_L=%s", fmtFloat(r.VolumeL))
	fmt.Fprintf(&b, " max_height_mm=%s", fmtFloat(r.MaxHeightMM))
	fmt.Fprintf(&b, " trash_vol_L=%s", fmtFloat(r.TrashVolL))
	fmt.Fprintf(&b, " cycle_days=%s", fmtInt(r.CycleDays))
	fmt.Fprintf(&b, " cri=%s", fmtInt(r.CRI))
	fmt.Fprintf(&b, " priority_score=%s", fmtInt(r.PriorityScore))
	fmt.Fprintf(&b, " risk_reason=%q", r.RiskReason)
	fmt.Fprintf(&b, " flood_probability=%s", fmtFloat(r.FloodProbability))
	fmt.Fprintf(&b, " foot_traffic_score=%s", fmtFloat(r.FootTrafficScore))
	fmt.Fprintf(&b, " damage_scale=%q", r.DamageScale)
	fmt.Fprintf(&b, " address=%q", r.Address)
	return b.String()
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "null"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", *v), "0"), ".")
}

func fmtInt(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}
