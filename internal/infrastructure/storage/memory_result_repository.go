package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

// MemoryResultRepository in-memory хранилище результатов прогона
type MemoryResultRepository struct {
	mu   sync.RWMutex
	rows map[int]entity.ResultRow
}

// NewMemoryResultRepository создаёт новое in-memory хранилище
func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{
		rows: make(map[int]entity.ResultRow),
	}
}

// Put сохраняет результат кадра; повторная запись под тем же номером запрещена
func (r *MemoryResultRepository) Put(ctx context.Context, index int, row entity.ResultRow) error {
	if index < 0 {
		return fmt.Errorf("negative result index %d", index)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[index]; exists {
		return fmt.Errorf("result %d (%s) is already stored", index, row.Filename)
	}
	r.rows[index] = row

	return nil
}

// List возвращает результаты в порядке обхода набора данных
func (r *MemoryResultRepository) List(ctx context.Context) ([]entity.ResultRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := make([]int, 0, len(r.rows))
	for idx := range r.rows {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	rows := make([]entity.ResultRow, 0, len(indexes))
	for _, idx := range indexes {
		rows = append(rows, r.rows[idx])
	}

	return rows, nil
}

// Reset очищает хранилище
func (r *MemoryResultRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	r.rows = make(map[int]entity.ResultRow)
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.ResultRepository = (*MemoryResultRepository)(nil)
