package entity

import "time"

// Имена метрик в отчёте статистики.
const (
	MetricPos            = "pos"
	MetricNormPos        = "norm_pos"
	MetricAngle          = "angle"
	MetricCompositeError = "composite_error"
	MetricTime           = "time"
)

// Summary — значение одной характеристики (среднее или отклонение) по каждой метрике.
type Summary struct {
	Pos            float64 `json:"pos"`
	NormPos        float64 `json:"norm_pos"`
	Angle          float64 `json:"angle"`
	CompositeError float64 `json:"composite_error"`
	Time           float64 `json:"time"`
}

// Get возвращает значение по имени метрики.
func (s Summary) Get(metric string) (float64, bool) {
	switch metric {
	case MetricPos:
		return s.Pos, true
	case MetricNormPos:
		return s.NormPos, true
	case MetricAngle:
		return s.Angle, true
	case MetricCompositeError:
		return s.CompositeError, true
	case MetricTime:
		return s.Time, true
	}
	return 0, false
}

// Statistics — агрегированные ошибки по набору данных.
type Statistics struct {
	Mean   Summary `json:"mean"`
	StdDev Summary `json:"std_dev"`
}

// EvaluationRun — один прогон оценки.
type EvaluationRun struct {
	ID         string
	Prefix     string
	StartedAt  time.Time
	Results    []ResultRow
	Statistics *Statistics // nil, если не оценено ни одного кадра
}

// DetectedCount возвращает число кадров с найденной линией.
func (r *EvaluationRun) DetectedCount() int {
	n := 0
	for _, row := range r.Results {
		if row.Detected {
			n++
		}
	}
	return n
}
