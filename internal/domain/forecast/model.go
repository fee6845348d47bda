package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/okian/skillpulse/internal/domain/model"
)

const (
	yearlyPeriod = 365.25
	yearlyOrder  = 10
	weeklyPeriod = 7.0
	weeklyOrder  = 3

	// z-score of an 80% two-sided interval.
	intervalZ = 1.2816

	trendPenalty = 1e-6
	dayHours     = 24
)

// additive is y(t) = trend(t) + yearly(t) + weekly(t) fitted on scaled data.
type additive struct {
	origin time.Time
	span   float64 // days between first and last observation
	scale  float64 // max |y|
	beta   []float64
	sigma  float64 // residual standard deviation, unscaled, at least sqrt(mean count)
}

func numFeatures() int { return 2 + 2*yearlyOrder + 2*weeklyOrder }

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / dayHours
}

// features writes the design row for a point days after origin into row.
func (m *additive) features(days float64, row []float64) {
	row[0] = 1
	row[1] = days / m.span
	i := 2
	for k := 1; k <= yearlyOrder; k++ {
		x := 2 * math.Pi * float64(k) * days / yearlyPeriod
		row[i], row[i+1] = math.Sin(x), math.Cos(x)
		i += 2
	}
	for k := 1; k <= weeklyOrder; k++ {
		x := 2 * math.Pi * float64(k) * days / weeklyPeriod
		row[i], row[i+1] = math.Sin(x), math.Cos(x)
		i += 2
	}
}

func fitAdditive(points []model.HistoryPoint, seasonalPenalty float64) (*additive, error) {
	n := len(points)
	if n < 2 {
		return nil, fmt.Errorf("%d points: %w", n, ErrInsufficientHistory)
	}
	m := &additive{origin: points[0].Month, span: daysBetween(points[0].Month, points[n-1].Month)}
	if m.span <= 0 {
		return nil, fmt.Errorf("zero history span: %w", ErrFitFailed)
	}

	y := make([]float64, n)
	for i, p := range points {
		y[i] = float64(p.MentionCount)
	}
	m.scale = floats.Norm(y, math.Inf(1))
	if m.scale == 0 {
		m.scale = 1
	}
	ys := make([]float64, n)
	floats.ScaleTo(ys, 1/m.scale, y)

	p := numFeatures()
	x := mat.NewDense(n, p, nil)
	row := make([]float64, p)
	for i, pt := range points {
		m.features(daysBetween(m.origin, pt.Month), row)
		x.SetRow(i, row)
	}

	// Normal equations with a ridge term: (XᵀX + Λ)β = Xᵀy.
	var a mat.SymDense
	a.SymOuterK(1, x.T())
	for j := 0; j < p; j++ {
		lambda := seasonalPenalty
		if j < 2 {
			lambda = trendPenalty
		}
		a.SetSym(j, j, a.At(j, j)+lambda)
	}
	var b mat.VecDense
	b.MulVec(x.T(), mat.NewVecDense(n, ys))

	var chol mat.Cholesky
	if ok := chol.Factorize(&a); !ok {
		return nil, fmt.Errorf("normal equations not positive definite: %w", ErrFitFailed)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &b); err != nil {
		return nil, fmt.Errorf("solve: %v: %w", err, ErrFitFailed)
	}
	m.beta = make([]float64, p)
	for j := range m.beta {
		m.beta[j] = beta.AtVec(j)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var sse, mean float64
	for i := range ys {
		r := (fitted.AtVec(i) - ys[i]) * m.scale
		sse += r * r
		mean += y[i]
	}
	mean /= float64(n)

	// Residual variance on the degrees of freedom the ridge fit leaves, which
	// are n minus the trace of the hat matrix X(XᵀX+Λ)⁻¹Xᵀ.
	var z mat.Dense
	if err := chol.SolveTo(&z, x.T()); err != nil {
		return nil, fmt.Errorf("hat matrix: %v: %w", err, ErrFitFailed)
	}
	var edf float64
	for i := 0; i < n; i++ {
		edf += mat.Dot(x.RowView(i), z.ColView(i))
	}
	sigma := math.Sqrt(sse / math.Max(float64(n)-edf, 1))

	// Mention counts carry at least Poisson noise.
	m.sigma = math.Max(sigma, math.Sqrt(mean))
	if math.IsNaN(m.sigma) || math.IsInf(m.sigma, 0) {
		return nil, fmt.Errorf("residual deviation not finite: %w", ErrFitFailed)
	}
	return m, nil
}

// predict returns the projected value days after origin.
func (m *additive) predict(days float64, row []float64) float64 {
	m.features(days, row)
	return floats.Dot(m.beta, row) * m.scale
}

// project extrapolates count daily points starting the day after last.
func (m *additive) project(last time.Time, count int) ([]model.ForecastPoint, float64, error) {
	out := make([]model.ForecastPoint, 0, count)
	row := make([]float64, numFeatures())
	var final float64
	for h := 1; h <= count; h++ {
		day := last.AddDate(0, 0, h)
		yhat := m.predict(daysBetween(m.origin, day), row)
		half := intervalZ * m.sigma * math.Sqrt(1+float64(h)/m.span)
		if math.IsNaN(yhat) || math.IsInf(yhat, 0) || math.IsNaN(half) || math.IsInf(half, 0) {
			return nil, 0, fmt.Errorf("non-finite projection at %s: %w", day.Format(time.DateOnly), ErrFitFailed)
		}
		out = append(out, newPoint(day, yhat, yhat-half, yhat+half))
		final = yhat
	}
	return out, final, nil
}

// newPoint rounds and clamps so that lower <= predicted <= upper.
func newPoint(day time.Time, predicted, lower, upper float64) model.ForecastPoint {
	p := round2(predicted)
	return model.ForecastPoint{
		Date:       day.Format(time.DateOnly),
		Predicted:  p,
		LowerBound: math.Min(round2(lower), p),
		UpperBound: math.Max(round2(upper), p),
	}
}
