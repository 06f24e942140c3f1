package entity

import "math"

// ErrorSHL хранит ошибки оценки линии горизонта для одного кадра.
// Составная ошибка всегда выводится из остальных полей.
type ErrorSHL struct {
	pos       Measure // пиксели
	normPos   Measure // pos / высота изображения
	angular   Measure // градусы, [0, 90]
	composite Measure
}

// NewErrorSHL собирает модель ошибки и вычисляет составную ошибку.
func NewErrorSHL(pos, normPos, angular Measure) ErrorSHL {
	return ErrorSHL{
		pos:       pos,
		normPos:   normPos,
		angular:   angular,
		composite: compositeError(normPos, angular),
	}
}

// ErrorFromValues собирает модель ошибки из чисел, где отрицательное значение означает «не вычислено».
func ErrorFromValues(pos, normPos, angular float64) ErrorSHL {
	return NewErrorSHL(MeasureFrom(pos), MeasureFrom(normPos), MeasureFrom(angular))
}

// compositeError смешивает угловую и нормированную позиционную ошибку с равными весами.
func compositeError(normPos, angular Measure) Measure {
	n, okN := normPos.Value()
	a, okA := angular.Value()
	if !okN || !okA || n < 0 || a < 0 {
		return Undefined()
	}
	angularTerm := 0.5 * a / 180
	normalizedTerm := 0.5 * n
	return Defined(100 * math.Sqrt(angularTerm+normalizedTerm))
}

// Pos возвращает позиционную ошибку в пикселях.
func (e ErrorSHL) Pos() Measure { return e.pos }

// NormalizedPos возвращает позиционную ошибку, делённую на высоту изображения.
func (e ErrorSHL) NormalizedPos() Measure { return e.normPos }

// Angular возвращает угловую ошибку в градусах.
func (e ErrorSHL) Angular() Measure { return e.angular }

// Composite возвращает составную ошибку.
func (e ErrorSHL) Composite() Measure { return e.composite }
