package port

import (
	"context"

	"horizon-eval/internal/domain/entity"
)

// ReportWriter записывает артефакты прогона и возвращает пути созданных файлов
type ReportWriter interface {
	Write(ctx context.Context, run *entity.EvaluationRun) ([]string, error)
}

// RunNotifier отправляет сводку прогона
type RunNotifier interface {
	Notify(ctx context.Context, run *entity.EvaluationRun) error
}
