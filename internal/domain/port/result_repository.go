package port

import (
	"context"

	"horizon-eval/internal/domain/entity"
)

// ResultRepository интерфейс хранилища результатов прогона
type ResultRepository interface {
	// Put сохраняет результат кадра под его порядковым номером
	Put(ctx context.Context, index int, row entity.ResultRow) error

	// List возвращает результаты в порядке номеров
	List(ctx context.Context) ([]entity.ResultRow, error)

	// Reset очищает хранилище перед новым прогоном
	Reset(ctx context.Context) error
}
