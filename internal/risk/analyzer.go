package risk

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/models"
)

// sweepDelay bounds the load a batch sweep puts on the store.
const sweepDelay = 100 * time.Millisecond

// Store is the slice of the record store the analyzer needs.
type Store interface {
	LatestByLocation(ctx context.Context, locationID string) (*models.DrainageRecord, error)
	Unanalyzed(ctx context.Context) ([]models.DrainageRecord, error)
	ApplyAssessment(ctx context.Context, recordID uint, a Assessment, now time.Time) error
}

// Analyzer runs the risk model against the latest record of a location and
// writes the analytics back. Safe to re-run: unchanged inputs produce the
// same assessment every time.
type Analyzer struct {
	store Store
	clock clockwork.Clock
}

// NewAnalyzer creates an analyzer using the real clock.
func NewAnalyzer(store Store) *Analyzer {
	return &Analyzer{store: store, clock: clockwork.NewRealClock()}
}

// NewAnalyzerWithClock lets tests freeze ml_updated_at.
func NewAnalyzerWithClock(store Store, clock clockwork.Clock) *Analyzer {
	return &Analyzer{store: store, clock: clock}
}

// AnalyzeLocation scores the most recent record for locationID and patches
// its analytics fields in a single update. A location with no rows is not an
// error: there is nothing to analyze, so this is a no-op.
func (a *Analyzer) AnalyzeLocation(ctx context.Context, locationID string) error {
	rec, err := a.store.LatestByLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	assessment := Score(rec)
	return a.store.ApplyAssessment(ctx, rec.ID, assessment, a.clock.Now().UTC())
}

// AnalyzeDeferred runs AnalyzeLocation in the background after the ingesting
// request has already responded. The caller has no channel for a late error,
// so failures are logged and swallowed.
func (a *Analyzer) AnalyzeDeferred(locationID string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("location_id", locationID).Errorf("deferred analysis panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.AnalyzeLocation(ctx, locationID); err != nil {
			logrus.WithField("location_id", locationID).Warnf("deferred analysis failed: %v", err)
		}
	}()
}

// SweepUnanalyzed analyzes every record whose ml_updated_at is still unset,
// pausing briefly between items. Returns how many locations were analyzed.
func (a *Analyzer) SweepUnanalyzed(ctx context.Context) (int, error) {
	rows, err := a.store.Unanalyzed(ctx)
	if err != nil {
		return 0, err
	}

	analyzed := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}
		if err := a.AnalyzeLocation(ctx, row.LocationID); err != nil {
			logrus.WithField("location_id", row.LocationID).Warnf("sweep analysis failed: %v", err)
			continue
		}
		analyzed++
		a.clock.Sleep(sweepDelay)
	}
	return analyzed, nil
}
