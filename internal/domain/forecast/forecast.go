// Package forecast projects skill demand from monthly mention history.
//
// With at least two months of history an additive trend plus seasonality model
// is fitted and extrapolated daily. Otherwise, or when the fit fails, a
// deterministic synthetic projection seeded by the skill name is returned so
// callers always get a well-formed result.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/skillpulse/internal/domain/history"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

// Horizon limits in months.
const (
	MinMonths     = 1
	MaxMonths     = 24
	DefaultMonths = 6

	daysPerMonth = 30

	defaultSeasonalPenalty = 0.1
)

// Path labels which branch produced a result.
const (
	PathModel    = "model"
	PathFallback = "fallback"
)

// Forecaster projects demand for skills found in a fixed record snapshot.
type Forecaster struct {
	records         []model.JobRecord
	now             func() time.Time
	log             logger.Logger
	seasonalPenalty float64
}

// New creates a Forecaster over records. The slice is not copied and must not
// be modified afterwards.
func New(records []model.JobRecord, opts ...Option) *Forecaster {
	f := &Forecaster{
		records:         records,
		now:             time.Now,
		log:             logger.Nop(),
		seasonalPenalty: defaultSeasonalPenalty,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forecast returns a months*30 day projection for skill.
func (f *Forecaster) Forecast(ctx context.Context, skill string, months int) (model.ForecastResult, error) {
	if months < MinMonths || months > MaxMonths {
		return model.ForecastResult{}, fmt.Errorf("months=%d: %w", months, ErrInvalidHorizon)
	}
	if err := ctx.Err(); err != nil {
		return model.ForecastResult{}, fmt.Errorf("forecast %q: %w", skill, err)
	}
	start := time.Now()

	points := history.Build(f.records, skill)
	if len(points) == 0 {
		f.log.Debug(ctx, "no history, using synthetic projection", logger.String("skill", skill))
		return f.fallback(skill, months, start), nil
	}

	res, err := f.fit(skill, months, points)
	if err != nil {
		if errors.Is(err, ErrInsufficientHistory) || errors.Is(err, ErrFitFailed) {
			f.log.Warn(ctx, "model fit failed, using synthetic projection",
				logger.String("skill", skill),
				logger.Int("history_points", len(points)),
				logger.Error(err))
			return f.fallback(skill, months, start), nil
		}
		return model.ForecastResult{}, err
	}

	metrics.RecordForecast(PathModel, time.Since(start))
	return res, nil
}

func (f *Forecaster) fallback(skill string, months int, start time.Time) model.ForecastResult {
	res := synthetic(skill, months, f.now())
	metrics.RecordForecast(PathFallback, time.Since(start))
	return res
}

func (f *Forecaster) fit(skill string, months int, points []model.HistoryPoint) (model.ForecastResult, error) {
	m, err := fitAdditive(points, f.seasonalPenalty)
	if err != nil {
		return model.ForecastResult{}, err
	}
	last := points[len(points)-1]
	data, final, err := m.project(last.Month, months*daysPerMonth)
	if err != nil {
		return model.ForecastResult{}, err
	}

	current := float64(last.MentionCount)
	change := changePercent(current, final)
	return model.ForecastResult{
		Skill:            skill,
		ForecastData:     data,
		Trend:            Narrative(change, skill),
		CurrentDemand:    round2(current),
		PredictedDemand:  round2(final),
		ChangePercentage: round2(change),
	}, nil
}
