package geometry

import (
	"errors"
	"math"

	"horizon-eval/internal/domain/entity"
)

// degenerateSin — порог, ниже которого sin θ считается нулём (θ = 0° или 180°).
const degenerateSin = 1e-12

var (
	// ErrDegenerateLine — нормаль линии параллельна оси x (sin θ = 0), y(x) не определён.
	ErrDegenerateLine = errors.New("line normal is parallel to the x axis")
	// ErrInvalidImageHeight — высота изображения не положительна.
	ErrInvalidImageHeight = errors.New("image height must be positive")
)

// LineYAtX возвращает y линии x·cos θ + y·sin θ = rho в точке x. theta в градусах.
func LineYAtX(x, rho, theta float64) (float64, error) {
	thetaRad := theta * math.Pi / 180.0
	sin := math.Sin(thetaRad)
	if math.Abs(sin) < degenerateSin {
		return 0, ErrDegenerateLine
	}
	return (rho - x*math.Cos(thetaRad)) / sin, nil
}

// ToGroundTruthFrame переводит угол детектора в систему отсчёта разметки.
func ToGroundTruthFrame(theta float64) float64 {
	return 90.0 - theta
}

// AngularError возвращает неориентированную разницу углов в диапазоне [0, 90].
// Линия и её поворот на 180° считаются одной и той же линией.
func AngularError(a, b float64) float64 {
	delta := math.Abs(a - b)
	if delta > 180 {
		delta = math.Mod(delta, 180)
	}
	return math.Min(delta, 180-delta)
}

// EvaluateLine сравнивает оценку (rho, theta) с разметкой.
//
// Ошибка возвращается вместе с частично заполненной моделью: при вырожденной линии
// или неположительной высоте изображения позиционные величины остаются не вычисленными,
// угловая ошибка вычисляется всегда.
func EvaluateLine(imageHeight, rho, theta float64, gt entity.GroundTruthEntry) (entity.ErrorSHL, error) {
	theta = ToGroundTruthFrame(theta)
	angular := entity.Defined(AngularError(theta, gt.Angle))

	y, err := LineYAtX(gt.XMidpoint, rho, theta)
	if err != nil {
		return entity.NewErrorSHL(entity.Undefined(), entity.Undefined(), angular), err
	}
	pos := math.Abs(y - gt.YMidpoint)

	if imageHeight <= 0 {
		return entity.NewErrorSHL(entity.Defined(pos), entity.Undefined(), angular), ErrInvalidImageHeight
	}

	return entity.NewErrorSHL(entity.Defined(pos), entity.Defined(pos/imageHeight), angular), nil
}
