package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/geometry"
	"horizon-eval/internal/domain/metrics"
	"horizon-eval/internal/domain/port"
	"horizon-eval/internal/infrastructure/storage"
)

type fakeGroundTruth struct {
	entries []entity.GroundTruthEntry
	err     error
}

func (f fakeGroundTruth) Entries(ctx context.Context) ([]entity.GroundTruthEntry, error) {
	return f.entries, f.err
}

type fakeDetections []entity.Detection

func (f fakeDetections) Detections(ctx context.Context) ([]entity.Detection, error) {
	return f, nil
}

type captureWriter struct {
	run *entity.EvaluationRun
	err error
}

func (w *captureWriter) Write(ctx context.Context, run *entity.EvaluationRun) ([]string, error) {
	w.run = run
	return []string{"memory"}, w.err
}

type captureNotifier struct {
	calls int
}

func (n *captureNotifier) Notify(ctx context.Context, run *entity.EvaluationRun) error {
	n.calls++
	return errors.New("network down")
}

func horizontalGT(name string, y float64) entity.GroundTruthEntry {
	return entity.GroundTruthEntry{Filename: name, XMidpoint: 50, YMidpoint: y, Angle: 90}
}

func TestEvaluateFrame_NotDetected(t *testing.T) {
	det := entity.Detection{Filename: "a.JPG", Elapsed: entity.Defined(0.5)}
	row, err := EvaluateFrame(det, horizontalGT("a.JPG", 10))
	require.NoError(t, err)
	require.False(t, row.Detected)
	require.Equal(t, 0.5, row.Time.OrSentinel())
	require.False(t, row.Error.Composite().IsDefined())
}

func TestEvaluateFrame_Detected(t *testing.T) {
	det := entity.Detection{Filename: "a.JPG", Detected: true, Rho: 110, Theta: 0, ImageHeight: 200, Elapsed: entity.Defined(0.01)}
	row, err := EvaluateFrame(det, horizontalGT("a.JPG", 100))
	require.NoError(t, err)
	require.True(t, row.Detected)

	pos, _ := row.Error.Pos().Value()
	require.InDelta(t, 10, pos, 1e-9)
	norm, _ := row.Error.NormalizedPos().Value()
	require.InDelta(t, 0.05, norm, 1e-12)
	composite, _ := row.Error.Composite().Value()
	require.InDelta(t, 100*math.Sqrt(0.025), composite, 1e-9)
}

func TestEvaluateFrame_Degenerate(t *testing.T) {
	det := entity.Detection{Filename: "a.JPG", Detected: true, Rho: 10, Theta: 90, ImageHeight: 200}
	row, err := EvaluateFrame(det, horizontalGT("a.JPG", 100))
	require.ErrorIs(t, err, geometry.ErrDegenerateLine)
	require.True(t, row.Detected)
	require.False(t, row.Error.Pos().IsDefined())
	require.True(t, row.Error.Angular().IsDefined())
}

func TestEvaluationService_Run(t *testing.T) {
	gt := fakeGroundTruth{entries: []entity.GroundTruthEntry{
		horizontalGT("a.JPG", 100),
		horizontalGT("b.JPG", 100),
		horizontalGT("c.JPG", 100),
	}}
	dets := fakeDetections{
		{Filename: "a.JPG", Detected: true, Rho: 102, Theta: 0, ImageHeight: 100, Elapsed: entity.Defined(0.1)},
		{Filename: "unknown.JPG", Detected: true, Rho: 1, Theta: 0, ImageHeight: 100},
		{Filename: "b.JPG", Detected: true, Rho: 108, Theta: 0, ImageHeight: 100, Elapsed: entity.Defined(0.3)},
		{Filename: "c.JPG", Detected: false, Elapsed: entity.Defined(0.2)},
	}
	writer := &captureWriter{}
	notifier := &captureNotifier{}
	svc := NewEvaluationService(gt, dets, storage.NewMemoryResultRepository(), []port.ReportWriter{writer}, notifier,
		EvaluationOptions{Prefix: "test", Workers: 3, Policy: metrics.ExcludeUndefined})

	run, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	require.Equal(t, "test", run.Prefix)
	require.Same(t, run, writer.run)
	require.Equal(t, 1, notifier.calls)

	require.Len(t, run.Results, 3)
	require.Equal(t, "a.JPG", run.Results[0].Filename)
	require.Equal(t, "b.JPG", run.Results[1].Filename)
	require.Equal(t, "c.JPG", run.Results[2].Filename)
	require.Equal(t, 2, run.DetectedCount())

	require.NotNil(t, run.Statistics)
	require.InDelta(t, 5, run.Statistics.Mean.Pos, 1e-9)
	require.InDelta(t, 3, run.Statistics.StdDev.Pos, 1e-9)
	require.InDelta(t, 0.2, run.Statistics.Mean.Time, 1e-12)
}

func TestEvaluationService_RunWithoutMatches(t *testing.T) {
	gt := fakeGroundTruth{entries: []entity.GroundTruthEntry{horizontalGT("a.JPG", 1)}}
	dets := fakeDetections{{Filename: "z.JPG"}}
	writer := &captureWriter{}
	svc := NewEvaluationService(gt, dets, storage.NewMemoryResultRepository(), []port.ReportWriter{writer}, nil, EvaluationOptions{})

	run, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, run.Results)
	require.Nil(t, run.Statistics)
	require.NotNil(t, writer.run)
}

func TestEvaluationService_EmptyGroundTruth(t *testing.T) {
	svc := NewEvaluationService(fakeGroundTruth{}, fakeDetections{}, storage.NewMemoryResultRepository(), nil, nil, EvaluationOptions{})
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrNoGroundTruth)
}

func TestEvaluationService_GroundTruthError(t *testing.T) {
	svc := NewEvaluationService(fakeGroundTruth{err: errors.New("missing")}, fakeDetections{}, storage.NewMemoryResultRepository(), nil, nil, EvaluationOptions{})
	_, err := svc.Run(context.Background())
	require.Error(t, err)
}

func TestEvaluationService_WriterError(t *testing.T) {
	gt := fakeGroundTruth{entries: []entity.GroundTruthEntry{horizontalGT("a.JPG", 1)}}
	writer := &captureWriter{err: errors.New("disk full")}
	svc := NewEvaluationService(gt, fakeDetections{{Filename: "a.JPG"}}, storage.NewMemoryResultRepository(), []port.ReportWriter{writer}, nil, EvaluationOptions{})
	_, err := svc.Run(context.Background())
	require.Error(t, err)
}

func TestEvaluationService_ManyFramesKeepOrder(t *testing.T) {
	var entries []entity.GroundTruthEntry
	var dets fakeDetections
	for i := 0; i < 200; i++ {
		name := fmt.Sprintf("%04d.JPG", i)
		entries = append(entries, horizontalGT(name, 100))
		dets = append(dets, entity.Detection{Filename: name, Detected: true, Rho: 100 + float64(i%7), Theta: 0, ImageHeight: 100})
	}
	svc := NewEvaluationService(fakeGroundTruth{entries: entries}, dets, storage.NewMemoryResultRepository(), nil, nil, EvaluationOptions{Workers: 8})

	run, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Results, 200)
	for i, row := range run.Results {
		require.Equal(t, fmt.Sprintf("%04d.JPG", i), row.Filename)
	}
}
