package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/metrics"
	"horizon-eval/internal/domain/port"
)

// ErrNoGroundTruth — источник разметки не вернул ни одной записи.
var ErrNoGroundTruth = errors.New("ground truth source is empty")

// EvaluationOptions задаёт параметры прогона.
type EvaluationOptions struct {
	Prefix  string
	Workers int
	Policy  metrics.UndefinedPolicy
	Debug   bool
}

// EvaluationService проводит оценку детектора по всему набору данных.
type EvaluationService struct {
	groundTruth port.GroundTruthSource
	detections  port.DetectionSource
	results     port.ResultRepository
	writers     []port.ReportWriter
	notifier    port.RunNotifier
	opts        EvaluationOptions
	now         func() time.Time
}

// NewEvaluationService создаёт сервис оценки. notifier может быть nil.
func NewEvaluationService(
	groundTruth port.GroundTruthSource,
	detections port.DetectionSource,
	results port.ResultRepository,
	writers []port.ReportWriter,
	notifier port.RunNotifier,
	opts EvaluationOptions,
) *EvaluationService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = metrics.IncludeUndefined
	}
	return &EvaluationService{
		groundTruth: groundTruth,
		detections:  detections,
		results:     results,
		writers:     writers,
		notifier:    notifier,
		opts:        opts,
		now:         time.Now,
	}
}

// Run оценивает все кадры, считает статистику и пишет отчёты.
func (s *EvaluationService) Run(ctx context.Context) (*entity.EvaluationRun, error) {
	run := &entity.EvaluationRun{
		ID:        uuid.NewString(),
		Prefix:    s.opts.Prefix,
		StartedAt: s.now(),
	}
	log.Printf("Evaluation run %s started", run.ID)

	entries, err := s.groundTruth.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ground truth: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoGroundTruth
	}
	index := make(map[string]entity.GroundTruthEntry, len(entries))
	for _, e := range entries {
		index[e.Filename] = e
	}

	detections, err := s.detections.Detections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load detections: %w", err)
	}

	if err := s.results.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset results: %w", err)
	}
	if err := s.evaluateAll(ctx, detections, index); err != nil {
		return nil, err
	}

	run.Results, err = s.results.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	run.Statistics, _ = metrics.Compute(run.Results, s.opts.Policy)
	if run.Statistics == nil {
		log.Printf("Evaluation run %s: no frames evaluated, statistics are not available", run.ID)
	}

	for _, w := range s.writers {
		paths, err := w.Write(ctx, run)
		if err != nil {
			return run, fmt.Errorf("write report: %w", err)
		}
		for _, p := range paths {
			log.Printf("Report written: %s", p)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, run); err != nil {
			log.Printf("Error sending run summary: %v", err)
		}
	}

	log.Printf("Evaluation run %s finished: %d frames, %d detected", run.ID, len(run.Results), run.DetectedCount())
	return run, nil
}

// evaluateAll оценивает кадры пулом воркеров; результат кладётся под номером кадра,
// чтобы после барьера сохранить порядок обхода.
func (s *EvaluationService) evaluateAll(ctx context.Context, detections []entity.Detection, index map[string]entity.GroundTruthEntry) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, det := range detections {
		i, det := i, det // per-iteration copies (Go < 1.22 loop semantics)
		gt, ok := index[det.Filename]
		if !ok {
			log.Printf("Skipping frame %s: no ground truth entry", det.Filename)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.opts.Debug {
				log.Printf("Frame %s: height %d", det.Filename, det.ImageHeight)
			}
			row, err := EvaluateFrame(det, gt)
			if err != nil {
				logFrameError(det.Filename, err)
			}
			return s.results.Put(ctx, i, row)
		})
	}

	return g.Wait()
}
