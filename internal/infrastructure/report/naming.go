package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"horizon-eval/internal/domain/entity"
)

// TimestampLayout — формат метки времени в именах отчётов (YYYYMMDD_HHMMSS).
const TimestampLayout = "20060102_150405"

// Namer строит имена файлов отчётов одного прогона.
type Namer struct {
	BaseDir string
	Prefix  string
}

// Path возвращает {BaseDir}/{Prefix}_{kind}_{timestamp}.{ext}.
func (n Namer) Path(kind, ext string, at time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.%s", n.Prefix, kind, at.Format(TimestampLayout), ext)
	return filepath.Join(n.BaseDir, name)
}

// runTime возвращает момент старта прогона; все файлы прогона именуются по нему.
// Для прогона без StartedAt используется now().
func runTime(run *entity.EvaluationRun, now func() time.Time) time.Time {
	if run.StartedAt.IsZero() {
		return now()
	}
	return run.StartedAt
}

// ensureDir создаёт каталог отчётов, если его нет.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
