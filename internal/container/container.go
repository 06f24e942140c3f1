package container

import (
	app "horizon-eval/internal/application"
	"horizon-eval/internal/domain/port"
)

type Container struct {
	EvaluationService *app.EvaluationService
}

func New(
	groundTruth port.GroundTruthSource,
	detections port.DetectionSource,
	results port.ResultRepository,
	writers []port.ReportWriter,
	notifier port.RunNotifier,
	opts app.EvaluationOptions,
) *Container {
	evaluationService := app.NewEvaluationService(groundTruth, detections, results, writers, notifier, opts)

	return &Container{
		EvaluationService: evaluationService,
	}
}
