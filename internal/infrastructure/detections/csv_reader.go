package detections

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

// Колонки файла ответов детектора.
const (
	ColFilename    = "filename"
	ColDetected    = "detected"
	ColRho         = "rho"
	ColTheta       = "theta"
	ColTime        = "time"
	ColImageHeight = "image_height"
)

var requiredColumns = []string{ColFilename, ColDetected}

// CSVReader читает ответы внешнего детектора, сохранённые в CSV
type CSVReader struct {
	filePath string
}

// NewCSVReader создаёт читатель ответов детектора
func NewCSVReader(filePath string) *CSVReader {
	return &CSVReader{filePath: filePath}
}

// Detections читает файл целиком; битые строки пропускаются
func (r *CSVReader) Detections(ctx context.Context) ([]entity.Detection, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open detections file: %w", err)
	}
	defer file.Close()

	detections, err := Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.filePath, err)
	}

	log.Printf("Loaded %d detections from %s", len(detections), r.filePath)
	return detections, nil
}

// Parse разбирает CSV с заголовком filename,detected,rho,theta,time,image_height.
func Parse(ctx context.Context, src io.Reader) ([]entity.Detection, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var detections []entity.Detection
	for line := 2; ; line++ {
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
				log.Printf("Error reading CSV row %d: %v", line, err)
				continue
			}
			return nil, err
		}

		detection, err := parseRow(row, colMap)
		if err != nil {
			log.Printf("Error parsing row %d: %v", line, err)
			continue
		}
		detections = append(detections, detection)
	}

	return detections, nil
}

// parseRow превращает строку CSV в Detection
func parseRow(row []string, colMap map[string]int) (entity.Detection, error) {
	get := func(col string) string {
		idx, ok := colMap[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	d := entity.Detection{
		Filename: get(ColFilename),
		Elapsed:  entity.Undefined(),
	}
	if d.Filename == "" {
		return d, errors.New("empty filename")
	}

	detected, err := strconv.ParseBool(get(ColDetected))
	if err != nil {
		return d, fmt.Errorf("invalid detected: %w", err)
	}
	d.Detected = detected

	if v := get(ColTime); v != "" {
		seconds, err := parseFinite(v)
		if err != nil {
			return d, fmt.Errorf("invalid time: %w", err)
		}
		d.Elapsed = entity.MeasureFrom(seconds)
	}

	if v := get(ColImageHeight); v != "" {
		height, err := strconv.Atoi(v)
		if err != nil {
			return d, fmt.Errorf("invalid image_height: %w", err)
		}
		d.ImageHeight = height
	}

	if !d.Detected {
		return d, nil
	}

	d.Rho, err = parseFinite(get(ColRho))
	if err != nil {
		return d, fmt.Errorf("invalid rho: %w", err)
	}
	d.Theta, err = parseFinite(get(ColTheta))
	if err != nil {
		return d, fmt.Errorf("invalid theta: %w", err)
	}

	return d, nil
}

// parseFinite разбирает число; inf и NaN считаются битым значением.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// Проверка реализации интерфейса
var _ port.DetectionSource = (*CSVReader)(nil)
