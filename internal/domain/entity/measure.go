package entity

// Sentinel значение, которым неопределённая величина записывается в отчёты.
const Sentinel = -1.0

// Measure — числовая величина, которая может быть не вычислена.
type Measure struct {
	value   float64
	defined bool
}

// Defined создаёт вычисленную величину.
func Defined(v float64) Measure {
	return Measure{value: v, defined: true}
}

// Undefined создаёт невычисленную величину.
func Undefined() Measure {
	return Measure{}
}

// MeasureFrom переводит значение с маркером -1 в Measure: любое отрицательное число считается неопределённым.
func MeasureFrom(v float64) Measure {
	if v < 0 {
		return Undefined()
	}
	return Defined(v)
}

// Value возвращает значение и признак того, что оно вычислено.
func (m Measure) Value() (float64, bool) {
	return m.value, m.defined
}

// IsDefined сообщает, вычислена ли величина.
func (m Measure) IsDefined() bool {
	return m.defined
}

// OrSentinel возвращает значение или Sentinel.
func (m Measure) OrSentinel() float64 {
	if !m.defined {
		return Sentinel
	}
	return m.value
}
