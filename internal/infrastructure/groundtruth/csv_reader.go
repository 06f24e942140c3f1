package groundtruth

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

// Колонки файла разметки.
const (
	colFilename  = 0
	colXMidpoint = 5
	colYMidpoint = 6
	colAngle     = 7
	minColumns   = 8
)

// DefaultSuffix дописывается к имени кадра из разметки, чтобы совпасть с именами файлов.
const DefaultSuffix = ".JPG"

// CSVReader читает разметку горизонта из файла с фиксированными колонками
type CSVReader struct {
	filePath string
	suffix   string
}

// NewCSVReader создаёт читатель разметки
func NewCSVReader(filePath, suffix string) *CSVReader {
	return &CSVReader{
		filePath: filePath,
		suffix:   suffix,
	}
}

// Entries читает весь файл разметки
func (r *CSVReader) Entries(ctx context.Context) ([]entity.GroundTruthEntry, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("open ground truth file: %w", err)
	}
	defer file.Close()

	entries, err := Parse(ctx, file, r.suffix)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.filePath, err)
	}

	log.Printf("Loaded %d ground truth entries from %s", len(entries), r.filePath)
	return entries, nil
}

// Parse разбирает строки разметки. Строки короче 8 полей и строки с нечисловыми
// колонками 5–7 (обычно заголовок) пропускаются с диагностикой.
func Parse(ctx context.Context, src io.Reader, suffix string) ([]entity.GroundTruthEntry, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var entries []entity.GroundTruthEntry
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Printf("Skipping row %d: %v", idx, err)
				continue
			}
			return nil, err
		}

		entry, err := parseRow(row, suffix)
		if err != nil {
			log.Printf("Skipping row %d: %v", idx, err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRow(row []string, suffix string) (entity.GroundTruthEntry, error) {
	if len(row) < minColumns {
		return entity.GroundTruthEntry{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	x, err := parseFloat(row[colXMidpoint])
	if err != nil {
		return entity.GroundTruthEntry{}, fmt.Errorf("invalid x midpoint: %w", err)
	}
	y, err := parseFloat(row[colYMidpoint])
	if err != nil {
		return entity.GroundTruthEntry{}, fmt.Errorf("invalid y midpoint: %w", err)
	}
	angle, err := parseFloat(row[colAngle])
	if err != nil {
		return entity.GroundTruthEntry{}, fmt.Errorf("invalid angle: %w", err)
	}

	return entity.GroundTruthEntry{
		Filename:  strings.TrimSpace(row[colFilename]) + suffix,
		XMidpoint: x,
		YMidpoint: y,
		Angle:     angle,
	}, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// Проверка реализации интерфейса
var _ port.GroundTruthSource = (*CSVReader)(nil)
