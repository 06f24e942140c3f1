package report

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

const (
	resultsSheet    = "Results"
	statisticsSheet = "Statistics"
)

// metricOrder — порядок метрик в листе статистики.
var metricOrder = []string{
	entity.MetricPos,
	entity.MetricNormPos,
	entity.MetricAngle,
	entity.MetricCompositeError,
	entity.MetricTime,
}

// XLSXWriter пишет результаты и статистику в книгу Excel.
type XLSXWriter struct {
	namer Namer
	now   func() time.Time
}

// NewXLSXWriter создаёт писатель книги {prefix}_results_{ts}.xlsx.
func NewXLSXWriter(baseDir, prefix string) *XLSXWriter {
	return &XLSXWriter{
		namer: Namer{BaseDir: baseDir, Prefix: prefix},
		now:   time.Now,
	}
}

// Write создаёт книгу с листами Results и Statistics.
func (w *XLSXWriter) Write(ctx context.Context, run *entity.EvaluationRun) ([]string, error) {
	if err := ensureDir(w.namer.BaseDir); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	if err := writeResultsSheet(f, run.Results); err != nil {
		return nil, err
	}

	idx, err := f.NewSheet(statisticsSheet)
	if err != nil {
		return nil, err
	}
	if err := writeStatisticsSheet(f, run.Statistics); err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	path := w.namer.Path("results", "xlsx", runTime(run, w.now))
	if err := f.SaveAs(path); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func writeResultsSheet(f *excelize.File, rows []entity.ResultRow) error {
	header := make([]interface{}, len(ResultsHeader))
	for i, h := range ResultsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Filename,
			row.Detected,
			row.Time.OrSentinel(),
			row.Error.Pos().OrSentinel(),
			row.Error.NormalizedPos().OrSentinel(),
			row.Error.Angular().OrSentinel(),
			row.Error.Composite().OrSentinel(),
		}
		if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeStatisticsSheet(f *excelize.File, stats *entity.Statistics) error {
	header := []interface{}{"Metric", "Mean", "Std Dev"}
	if err := f.SetSheetRow(statisticsSheet, "A1", &header); err != nil {
		return err
	}
	if stats == nil {
		return f.SetCellValue(statisticsSheet, "A2", "no statistics available")
	}

	for i, name := range metricOrder {
		mean, _ := stats.Mean.Get(name)
		stdDev, _ := stats.StdDev.Get(name)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{name, mean, stdDev}
		if err := f.SetSheetRow(statisticsSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.ReportWriter = (*XLSXWriter)(nil)
