/*
demand.go - Tiered section-demand estimation

PURPOSE:
  Answers "how many sections does this course need this term". Signals are
  consulted in strict priority order; a tier is only evaluated when every
  tier above it produced zero:

  1. Published sections   - authoritative. When the current term already
                            has sections in an allowed status, that count
                            IS the demand and no fallback source is read.
  2. (gate)               - when fallback is disabled, demand is 0 here.
  3. Pre-enlistment       - requested seats divided by the historical
                            average section capacity, rounded up.
  4. Historical blend     - recency-weighted section counts x fill rates
                            over the three preceding terms.

NUMERIC CONTRACT:
  decimal arithmetic throughout; ceiling division in tier 3, half-up
  rounding in tier 4, result never negative.

SEE ALSO:
  - types.go: DefaultSeatCap, DefaultFillRate
  - run.go: invokes Estimate once per course
*/
package forecast

import (
	"context"

	"github.com/shopspring/decimal"
)

// historyBlendTerms is how many preceding terms tier 4 consults, and
// historyBlendWeights are their recency weights, aligned newest-first.
const historyBlendTerms = 3

var historyBlendWeights = []decimal.Decimal{
	decimal.NewFromFloat(0.6),
	decimal.NewFromFloat(0.3),
	decimal.NewFromFloat(0.1),
}

// DemandEstimator computes per-course section demand for the current term.
type DemandEstimator struct {
	Store Store
	Seq   *TermSequencer

	// AllowedStatuses are the section statuses that count as published.
	AllowedStatuses []string

	// AllowFallback gates tiers 3 and 4. When false, a course with no
	// published sections has zero demand.
	AllowFallback bool
}

// Estimate returns the number of sections the course needs in the current
// term, by the tier priority documented above.
func (e *DemandEstimator) Estimate(ctx context.Context, courseID CourseID, currentTerm TermID) (int, error) {
	published, err := e.Store.CountCourseSections(ctx, courseID, currentTerm, e.AllowedStatuses)
	if err != nil {
		return 0, err
	}
	if published > 0 {
		return published, nil
	}

	if !e.AllowFallback {
		return 0, nil
	}

	fromSeats, ok, err := e.fromPreEnlistment(ctx, courseID, currentTerm)
	if err != nil {
		return 0, err
	}
	if ok {
		return fromSeats, nil
	}

	return e.fromHistory(ctx, courseID, currentTerm)
}

// fromPreEnlistment converts requested seats into sections using the
// course's historical average seat cap. ok is false when no usable
// pre-enlistment signal exists.
func (e *DemandEstimator) fromPreEnlistment(ctx context.Context, courseID CourseID, currentTerm TermID) (int, bool, error) {
	pe, err := e.Store.PreEnlistment(ctx, currentTerm, courseID)
	if err != nil {
		return 0, false, err
	}
	if pe == nil || pe.SeatsRequested <= 0 {
		return 0, false, nil
	}

	avgCap := decimal.NewFromInt(DefaultSeatCap)
	if mean, err := e.Store.MeanSeatCap(ctx, courseID); err != nil {
		return 0, false, err
	} else if mean != nil {
		avgCap = decimal.NewFromFloat(*mean)
	}
	one := decimal.NewFromInt(1)
	if avgCap.LessThan(one) {
		avgCap = one
	}

	seats := decimal.NewFromInt(int64(pe.SeatsRequested))
	sections := int(seats.Div(avgCap).Ceil().IntPart())
	return sections, true, nil
}

// fromHistory blends the three preceding terms: per term, section count
// times mean fill rate times a recency weight, summed and rounded to the
// nearest whole section.
func (e *DemandEstimator) fromHistory(ctx context.Context, courseID CourseID, currentTerm TermID) (int, error) {
	sum := decimal.Zero
	for i, termID := range e.Seq.Before(currentTerm, historyBlendTerms) {
		stats, err := e.Store.TermSectionStats(ctx, courseID, termID)
		if err != nil {
			return 0, err
		}
		if stats.Count == 0 {
			continue
		}
		fill := decimal.NewFromFloat(DefaultFillRate)
		if stats.MeanFillRate != nil {
			fill = decimal.NewFromFloat(*stats.MeanFillRate)
		}
		contribution := decimal.NewFromInt(int64(stats.Count)).
			Mul(fill).
			Mul(historyBlendWeights[i])
		sum = sum.Add(contribution)
	}

	sections := int(sum.Round(0).IntPart())
	if sections < 0 {
		sections = 0
	}
	return sections, nil
}
