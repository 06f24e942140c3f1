package entity

// GroundTruthEntry — разметка линии горизонта для одного кадра.
type GroundTruthEntry struct {
	Filename  string  // ключ, совпадает с именем кадра в результатах детектора
	XMidpoint float64 // пиксели
	YMidpoint float64 // пиксели
	Angle     float64 // градусы, система отсчёта разметки
}

// Detection — ответ внешнего детектора для одного кадра.
type Detection struct {
	Filename    string
	Detected    bool
	Rho         float64 // расстояние до начала координат, пиксели
	Theta       float64 // градусы, система отсчёта детектора
	Elapsed     Measure // секунды
	ImageHeight int
}

// ResultRow — итог оценки одного кадра.
type ResultRow struct {
	Filename string
	Detected bool
	Time     Measure // секунды
	Error    ErrorSHL
}

// NewResultRow возвращает строку без обнаружения, все величины не вычислены.
func NewResultRow(filename string) ResultRow {
	return ResultRow{
		Filename: filename,
		Error:    NewErrorSHL(Undefined(), Undefined(), Undefined()),
	}
}
