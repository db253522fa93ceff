package toolkit

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidPlan is returned by Forecast for inputs the arithmetic cannot use.
var ErrInvalidPlan = errors.New("invalid commission plan")

// AverageDealSize is the deal size used to estimate how many more deals reach
// the next accelerator.
const AverageDealSize = 25000

// Scenario adjustments are limited to this many percent either way.
const MaxScenarioAdjustment = 50

// Tier is an accelerator: bookings above Threshold percent of quota earn
// Multiplier times the base commission rate.
type Tier struct {
	Threshold  float64 `json:"threshold"`
	Multiplier float64 `json:"multiplier"`
}

// Plan is a compensation plan.
type Plan struct {
	BaseSalary   float64 `json:"baseSalary"`
	OTE          float64 `json:"ote"`
	Quota        float64 `json:"quota"`
	Accelerators []Tier  `json:"accelerators"`
}

// Deal is one pipeline opportunity. Probability is a percentage.
type Deal struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// CurvePoint is earnings at one attainment level.
type CurvePoint struct {
	Attainment    float64 `json:"attainment"`
	Commission    float64 `json:"commission"`
	TotalEarnings float64 `json:"totalEarnings"`
}

// ForecastResult is the Commission Forecaster output.
type ForecastResult struct {
	VariableComp        float64      `json:"variableComp"`
	CommissionRate      float64      `json:"commissionRate"`
	WeightedPipeline    float64      `json:"weightedPipeline"`
	ProjectedBookings   float64      `json:"projectedBookings"`
	QuotaAttainment     float64      `json:"quotaAttainment"`
	ProjectedCommission float64      `json:"projectedCommission"`
	TotalEarnings       float64      `json:"totalEarnings"`
	Curve               []CurvePoint `json:"curve"`

	// NextTier is nil when attainment is already past the highest threshold.
	NextTier        *Tier `json:"nextTier,omitempty"`
	DealsToNextTier int   `json:"dealsToNextTier"`
}

// DefaultPlan returns the demo plan: 60k base, 120k OTE, 500k quota and five
// accelerator tiers.
func DefaultPlan() Plan {
	return Plan{
		BaseSalary: 60000,
		OTE:        120000,
		Quota:      500000,
		Accelerators: []Tier{
			{Threshold: 0, Multiplier: 0.5},
			{Threshold: 50, Multiplier: 0.75},
			{Threshold: 100, Multiplier: 1.0},
			{Threshold: 120, Multiplier: 1.5},
			{Threshold: 150, Multiplier: 2.0},
		},
	}
}

// SampleDeals returns the demo pipeline.
func SampleDeals() []Deal {
	return []Deal{
		{Name: "Acme Corp", Value: 75000, Probability: 80},
		{Name: "TechStart Inc", Value: 50000, Probability: 60},
		{Name: "Global Ltd", Value: 120000, Probability: 40},
	}
}

// Validate checks that the plan can be forecast.
func (p Plan) Validate() error {
	switch {
	case p.Quota <= 0:
		return fmt.Errorf("%w: quota must be positive", ErrInvalidPlan)
	case p.BaseSalary < 0:
		return fmt.Errorf("%w: base salary must not be negative", ErrInvalidPlan)
	case p.OTE < p.BaseSalary:
		return fmt.Errorf("%w: OTE must be at least the base salary", ErrInvalidPlan)
	}
	for _, t := range p.Accelerators {
		if t.Threshold < 0 || t.Multiplier < 0 {
			return fmt.Errorf("%w: accelerator %v/%v must not be negative", ErrInvalidPlan, t.Threshold, t.Multiplier)
		}
	}
	return nil
}

// CommissionRate is the commission earned per unit of bookings at a 1x
// multiplier.
func (p Plan) CommissionRate() float64 {
	return (p.OTE - p.BaseSalary) / p.Quota
}

// Commission returns the commission earned at attainment percent of quota.
// Tiers are walked from the highest threshold down; each tier pays for the
// attainment between its threshold and the level above it, capped at 100
// points per tier.
func (p Plan) Commission(attainment float64) float64 {
	tiers := slices.Clone(p.Accelerators)
	slices.SortStableFunc(tiers, func(a, b Tier) int {
		switch {
		case a.Threshold > b.Threshold:
			return -1
		case a.Threshold < b.Threshold:
			return 1
		}
		return 0
	})

	rate := p.CommissionRate()
	var commission float64
	remaining := attainment
	for _, tier := range tiers {
		if remaining <= tier.Threshold {
			continue
		}
		inTier := math.Min(remaining, tier.Threshold+100) - tier.Threshold
		commission += inTier / 100 * p.Quota * rate * tier.Multiplier
		remaining = tier.Threshold
	}
	return commission
}

// Forecast projects bookings and earnings for a pipeline. scenarioPct scales
// the weighted pipeline, from -50 to +50 percent.
func Forecast(plan Plan, deals []Deal, scenarioPct float64) (*ForecastResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if math.Abs(scenarioPct) > MaxScenarioAdjustment {
		return nil, fmt.Errorf("%w: scenario adjustment %v%% is outside ±%d%%", ErrInvalidPlan, scenarioPct, MaxScenarioAdjustment)
	}

	var weighted float64
	for _, d := range deals {
		if d.Value < 0 || d.Probability < 0 || d.Probability > 100 {
			return nil, fmt.Errorf("%w: deal %q needs a non-negative value and a probability from 0 to 100", ErrInvalidPlan, d.Name)
		}
		weighted += d.Value * d.Probability / 100
	}

	projected := weighted * (1 + scenarioPct/100)
	attainment := projected / plan.Quota * 100
	commission := plan.Commission(attainment)

	result := &ForecastResult{
		VariableComp:        plan.OTE - plan.BaseSalary,
		CommissionRate:      plan.CommissionRate(),
		WeightedPipeline:    weighted,
		ProjectedBookings:   projected,
		QuotaAttainment:     attainment,
		ProjectedCommission: commission,
		TotalEarnings:       plan.BaseSalary + commission,
		Curve:               EarningsCurve(plan),
	}

	for _, t := range plan.Accelerators {
		if t.Threshold > attainment && (result.NextTier == nil || t.Threshold < result.NextTier.Threshold) {
			next := t
			result.NextTier = &next
		}
	}
	if result.NextTier != nil {
		gap := (result.NextTier.Threshold - attainment) / 100 * plan.Quota
		result.DealsToNextTier = int(math.Ceil(gap / AverageDealSize))
	}
	return result, nil
}

// EarningsCurve returns commission and total earnings from 0 to 200 percent
// attainment in 5 point steps.
func EarningsCurve(plan Plan) []CurvePoint {
	points := make([]CurvePoint, 0, 41)
	for a := 0; a <= 200; a += 5 {
		c := plan.Commission(float64(a))
		points = append(points, CurvePoint{
			Attainment:    float64(a),
			Commission:    c,
			TotalEarnings: plan.BaseSalary + c,
		})
	}
	return points
}
