package report

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

// PlotWriter рисует составную ошибку по кадрам.
type PlotWriter struct {
	namer Namer
	now   func() time.Time
}

// NewPlotWriter создаёт писатель графика {prefix}_composite_{ts}.png.
func NewPlotWriter(baseDir, prefix string) *PlotWriter {
	return &PlotWriter{
		namer: Namer{BaseDir: baseDir, Prefix: prefix},
		now:   time.Now,
	}
}

// Write сохраняет график; кадры с невычисленной ошибкой не рисуются.
// Если точек нет, файл не создаётся.
func (w *PlotWriter) Write(ctx context.Context, run *entity.EvaluationRun) ([]string, error) {
	pts := make(plotter.XYs, 0, len(run.Results))
	for i, row := range run.Results {
		v, ok := row.Error.Composite().Value()
		if !ok {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	if len(pts) == 0 {
		return nil, nil
	}

	if err := ensureDir(w.namer.BaseDir); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s composite error", run.Prefix)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Composite error"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("composite line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if run.Statistics != nil {
		mean := run.Statistics.Mean.CompositeError
		meanLine, err := plotter.NewLine(plotter.XYs{
			{X: pts[0].X, Y: mean},
			{X: pts[len(pts)-1].X, Y: mean},
		})
		if err != nil {
			return nil, fmt.Errorf("mean line: %w", err)
		}
		meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(meanLine)
		p.Legend.Add("composite", line)
		p.Legend.Add("mean", meanLine)
	}

	path := w.namer.Path("composite", "png", runTime(run, w.now))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return nil, fmt.Errorf("save plot: %w", err)
	}
	return []string{path}, nil
}

// Проверка реализации интерфейса
var _ port.ReportWriter = (*PlotWriter)(nil)
