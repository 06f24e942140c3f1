//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/geometry"
	"horizon-eval/internal/domain/port"
)

type GoCVDetector struct {
	MaxSide        int
	MinImageSide   int
	CannyLow       float32
	CannyHigh      float32
	HoughThreshold int
	MaxTiltDegrees float64
}

// NewGoCVDetector создаёт детектор горизонта на преобразовании Хафа.
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

// Detect ищет самую сильную почти горизонтальную линию.
// Координаты возвращаются в пикселях исходного изображения.
func (d *GoCVDetector) Detect(ctx context.Context, imageData []byte) (*port.HorizonEstimate, error) {
	_ = ctx
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if err := d.checkImageSize(mat); err != nil {
		return nil, err
	}

	estimate := &port.HorizonEstimate{
		ImageWidth:  mat.Cols(),
		ImageHeight: mat.Rows(),
	}

	// Приводим изображение к стандартному размеру для стабильных порогов.
	scale := 1.0
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale = float64(d.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
		newW := int(float64(mat.Cols()) * scale)
		newH := int(float64(mat.Rows()) * scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, d.CannyLow, d.CannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLines(edges, &lines, 1, float32(math.Pi/180), d.HoughThreshold)

	// OpenCV отдаёт линии по убыванию числа голосов.
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVecfAt(i, 0)
		rho := float64(v[0])
		thetaDeg := float64(v[1]) * 180 / math.Pi
		if math.Abs(thetaDeg-90) > d.MaxTiltDegrees {
			continue
		}
		estimate.Detected = true
		estimate.Rho = rho / scale
		// Детектор отдаёт угол, дополняющий угол нормали OpenCV до 90°.
		estimate.Theta = 90 - thetaDeg
		break
	}

	return estimate, nil
}

// Annotate рисует оценку (красным) и разметку (зелёным) и возвращает JPEG.
func (d *GoCVDetector) Annotate(imageData []byte, estimate *port.HorizonEstimate, gt *entity.GroundTruthEntry) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	width := float64(mat.Cols())
	if estimate != nil && estimate.Detected {
		red := color.RGBA{R: 255, A: 255}
		drawNormalLine(&mat, width, estimate.Rho, 90-estimate.Theta, red)
	}
	if gt != nil {
		green := color.RGBA{G: 255, A: 255}
		rad := gt.Angle * math.Pi / 180
		rho := gt.XMidpoint*math.Cos(rad) + gt.YMidpoint*math.Sin(rad)
		drawNormalLine(&mat, width, rho, gt.Angle, green)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode annotated frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// drawNormalLine рисует линию x·cos θ + y·sin θ = rho по всей ширине кадра.
func drawNormalLine(mat *gocv.Mat, width, rho, theta float64, c color.RGBA) {
	y0, err0 := geometry.LineYAtX(0, rho, theta)
	y1, err1 := geometry.LineYAtX(width, rho, theta)
	if err0 != nil || err1 != nil {
		return
	}
	gocv.Line(mat, image.Pt(0, int(math.Round(y0))), image.Pt(int(width), int(math.Round(y1))), c, 2)
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (d *GoCVDetector) checkImageSize(mat gocv.Mat) error {
	if mat.Empty() {
		return errors.New("empty image")
	}
	if mat.Cols() < d.MinImageSide || mat.Rows() < d.MinImageSide {
		return fmt.Errorf("image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}
	return nil
}

var _ port.HorizonDetector = (*GoCVDetector)(nil)
