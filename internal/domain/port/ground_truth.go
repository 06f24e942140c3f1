package port

import (
	"context"

	"horizon-eval/internal/domain/entity"
)

// GroundTruthSource интерфейс источника разметки
type GroundTruthSource interface {
	// Entries возвращает все корректные записи разметки; битые строки пропускаются
	Entries(ctx context.Context) ([]entity.GroundTruthEntry, error)
}
