package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

// ResultsHeader — заголовок таблицы результатов.
var ResultsHeader = []string{
	"Filename",
	"Detected",
	"Time (s)",
	"Positional Error (px)",
	"Normalized Positional Error",
	"Angular Error (deg)",
	"Composite Error",
}

// CSVWriter пишет таблицу результатов и JSON со статистикой.
type CSVWriter struct {
	namer Namer
	now   func() time.Time
}

// NewCSVWriter создаёт писатель основных отчётов.
func NewCSVWriter(baseDir, prefix string) *CSVWriter {
	return &CSVWriter{
		namer: Namer{BaseDir: baseDir, Prefix: prefix},
		now:   time.Now,
	}
}

// Write создаёт {prefix}_results_{ts}.csv и {prefix}_statistics_{ts}.json.
func (w *CSVWriter) Write(ctx context.Context, run *entity.EvaluationRun) ([]string, error) {
	if err := ensureDir(w.namer.BaseDir); err != nil {
		return nil, err
	}

	at := runTime(run, w.now)
	resultsPath := w.namer.Path("results", "csv", at)
	if err := writeResults(resultsPath, run.Results); err != nil {
		return nil, err
	}

	statsPath := w.namer.Path("statistics", "json", at)
	if err := writeStatistics(statsPath, run.Statistics); err != nil {
		return nil, err
	}

	return []string{resultsPath, statsPath}, nil
}

func writeResults(path string, rows []entity.ResultRow) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cw := csv.NewWriter(file)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(FormatRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRow форматирует строку результата для таблицы; невычисленные значения пишутся как -1.
func FormatRow(row entity.ResultRow) []string {
	return []string{
		row.Filename,
		formatBool(row.Detected),
		formatFloat(row.Time.OrSentinel(), 6),
		formatFloat(row.Error.Pos().OrSentinel(), 2),
		formatFloat(row.Error.NormalizedPos().OrSentinel(), 6),
		formatFloat(row.Error.Angular().OrSentinel(), 2),
		formatFloat(row.Error.Composite().OrSentinel(), 2),
	}
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// writeStatistics пишет статистику с отступом в 4 пробела; без статистики в файле будет null.
func writeStatistics(path string, stats *entity.Statistics) error {
	data, err := json.MarshalIndent(stats, "", "    ")
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write statistics file: %w", err)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.ReportWriter = (*CSVWriter)(nil)
