package metrics

import (
	"fmt"
	"log"
	"math"

	"github.com/montanaflynn/stats"

	"horizon-eval/internal/domain/entity"
)

// UndefinedPolicy определяет, как агрегатор обращается с невычисленными величинами.
type UndefinedPolicy string

const (
	// IncludeUndefined учитывает невычисленные величины как -1.
	IncludeUndefined UndefinedPolicy = "include"
	// ExcludeUndefined считает каждую метрику только по вычисленным значениям.
	ExcludeUndefined UndefinedPolicy = "exclude"
)

// ParsePolicy разбирает название политики; пустая строка даёт IncludeUndefined.
func ParsePolicy(s string) (UndefinedPolicy, error) {
	switch UndefinedPolicy(s) {
	case "", IncludeUndefined:
		return IncludeUndefined, nil
	case ExcludeUndefined:
		return ExcludeUndefined, nil
	}
	return "", fmt.Errorf("unknown undefined policy %q", s)
}

// extractors задают порядок и источник каждой метрики.
var extractors = []struct {
	name string
	get  func(entity.ResultRow) entity.Measure
}{
	{entity.MetricPos, func(r entity.ResultRow) entity.Measure { return r.Error.Pos() }},
	{entity.MetricNormPos, func(r entity.ResultRow) entity.Measure { return r.Error.NormalizedPos() }},
	{entity.MetricAngle, func(r entity.ResultRow) entity.Measure { return r.Error.Angular() }},
	{entity.MetricCompositeError, func(r entity.ResultRow) entity.Measure { return r.Error.Composite() }},
	{entity.MetricTime, func(r entity.ResultRow) entity.Measure { return r.Time }},
}

// Compute считает среднее и стандартное отклонение генеральной совокупности по каждой метрике.
// Для пустого набора строк возвращает nil, false.
func Compute(rows []entity.ResultRow, policy UndefinedPolicy) (*entity.Statistics, bool) {
	if len(rows) == 0 {
		return nil, false
	}

	result := &entity.Statistics{}
	for _, ex := range extractors {
		values := column(ex.name, rows, ex.get, policy)
		mean, stdDev := meanStdDev(values)
		setMetric(&result.Mean, ex.name, mean)
		setMetric(&result.StdDev, ex.name, stdDev)
	}
	return result, true
}

// column собирает значения одной метрики по политике.
// Бесконечности и NaN в агрегат не попадают.
func column(name string, rows []entity.ResultRow, get func(entity.ResultRow) entity.Measure, policy UndefinedPolicy) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		m := get(row)
		if policy == ExcludeUndefined && !m.IsDefined() {
			continue
		}
		v := m.OrSentinel()
		if math.IsInf(v, 0) || math.IsNaN(v) {
			log.Printf("Skipping non-finite %s %v for %s", name, v, row.Filename)
			continue
		}
		values = append(values, v)
	}
	return values
}

// meanStdDev — среднее, затем отклонение вторым проходом (без поправки Бесселя).
// Пустой столбец (все значения исключены) даёт Sentinel.
func meanStdDev(values []float64) (float64, float64) {
	mean, err := stats.Mean(values)
	if err != nil {
		return entity.Sentinel, entity.Sentinel
	}
	stdDev, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return mean, entity.Sentinel
	}
	return mean, stdDev
}

func setMetric(s *entity.Summary, name string, v float64) {
	switch name {
	case entity.MetricPos:
		s.Pos = v
	case entity.MetricNormPos:
		s.NormPos = v
	case entity.MetricAngle:
		s.Angle = v
	case entity.MetricCompositeError:
		s.CompositeError = v
	case entity.MetricTime:
		s.Time = v
	}
}
