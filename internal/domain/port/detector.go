package port

import (
	"context"

	"horizon-eval/internal/domain/entity"
)

// HorizonEstimate — линия горизонта, найденная на одном кадре.
type HorizonEstimate struct {
	Detected    bool
	Rho         float64 // пиксели
	Theta       float64 // градусы, система отсчёта детектора
	ImageWidth  int
	ImageHeight int
}

// HorizonDetector интерфейс детектора линии горизонта
type HorizonDetector interface {
	// Detect ищет линию горизонта на изображении
	Detect(ctx context.Context, imageData []byte) (*HorizonEstimate, error)

	// Annotate рисует оценку и разметку поверх кадра; gt может быть nil
	Annotate(imageData []byte, estimate *HorizonEstimate, gt *entity.GroundTruthEntry) ([]byte, error)
}

// DetectionSource отдаёт ответы детектора по всему набору данных в порядке обхода
type DetectionSource interface {
	Detections(ctx context.Context) ([]entity.Detection, error)
}
