//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

// ErrGoCVDisabled — сборка без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVDetector struct {
	MaxSide        int
	MinImageSide   int
	CannyLow       float32
	CannyHigh      float32
	HoughThreshold int
	MaxTiltDegrees float64
}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{
		MaxSide:        1024,
		MinImageSide:   64,
		CannyLow:       50,
		CannyHigh:      150,
		HoughThreshold: 120,
		MaxTiltDegrees: 30,
	}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, imageData []byte) (*port.HorizonEstimate, error) {
	_ = ctx
	_ = imageData
	return nil, ErrGoCVDisabled
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Annotate(imageData []byte, estimate *port.HorizonEstimate, gt *entity.GroundTruthEntry) ([]byte, error) {
	_ = imageData
	_ = estimate
	_ = gt
	return nil, ErrGoCVDisabled
}

var _ port.HorizonDetector = (*GoCVDetector)(nil)
