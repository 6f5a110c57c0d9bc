package interfaces

import (
	"github.com/iwtcode/benchService/internal/domain/models"
)

// SourceController управляет источником питания в течение одного прогона.
//
// BringDown - безусловный путь приведения в безопасное состояние: может
// вызываться из любого режима сессии и повторно; возвращаемая ошибка
// предназначена только для журнала, вызывающий обязан продолжить останов.
type SourceController interface {
	BringUp() error
	SetVoltage(v float64) (float64, error)
	MeasureVoltage() (float64, error)
	BringDown() error
	Mode() models.SessionMode
}

// LoadController управляет электронной нагрузкой в течение одного прогона.
// SetCurrent задает действующее значение тока и сразу же выставляет пиковый
// предел - без второй команды нагрузка не начинает принимать мощность.
type LoadController interface {
	BringUp() error
	SetCurrent(i float64) error
	Measure() (models.Measurement, error)
	BringDown() error
	Mode() models.SessionMode
}

// AbortMonitor - односторонний липкий флаг запроса останова. Requested
// не блокирует и опрашивается движком между шагами развёртки.
type AbortMonitor interface {
	Request()
	Requested() bool
}
