package app

import (
	"errors"
	"log"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/geometry"
)

// EvaluateFrame сравнивает ответ детектора с разметкой кадра.
// Функция чистая, поэтому кадры можно оценивать параллельно.
func EvaluateFrame(det entity.Detection, gt entity.GroundTruthEntry) (entity.ResultRow, error) {
	row := entity.NewResultRow(det.Filename)
	row.Time = det.Elapsed
	if !det.Detected {
		return row, nil
	}

	row.Detected = true
	e, err := geometry.EvaluateLine(float64(det.ImageHeight), det.Rho, det.Theta, gt)
	row.Error = e
	return row, err
}

// logFrameError пишет диагностику по кадру, который оценён частично.
func logFrameError(filename string, err error) {
	switch {
	case errors.Is(err, geometry.ErrDegenerateLine):
		log.Printf("Frame %s: degenerate line, positional error is undefined", filename)
	case errors.Is(err, geometry.ErrInvalidImageHeight):
		log.Printf("Frame %s: unknown image height, normalized error is undefined", filename)
	default:
		log.Printf("Frame %s: %v", filename, err)
	}
}
