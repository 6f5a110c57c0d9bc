package errors

import (
	"errors"
	"fmt"
)

// Ошибки транспортного уровня. Таймаут ответа прибора отличается от прочих
// сетевых ошибок, но на уровне движка оба трактуются как отказ прибора.
var (
	ErrTransportTimeout = errors.New("instrument response timeout")
	ErrTransportClosed  = errors.New("transport is closed")
)

// ConfigurationError - ошибка валидации плана развёртки. Возникает строго до
// первого обращения к приборам.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid sweep plan: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError создает ошибку валидации для указанного поля плана.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// InstrumentFault - отказ прибора: расхождение уставки и обратного чтения,
// явная ошибка прибора или таймаут обмена.
type InstrumentFault struct {
	Instrument string  // "source" или "load"
	Command    string  // команда, на которой произошел отказ
	Want       float64 // заданное значение
	Got        float64 // фактически прочитанное значение
	Attempts   int     // сколько попыток подтверждения было сделано
	Err        error   // исходная ошибка, если отказ не связан с расхождением
}

func (f *InstrumentFault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("instrument fault [%s] on %q: %v", f.Instrument, f.Command, f.Err)
	}
	return fmt.Sprintf("instrument fault [%s] on %q: commanded %.3f, read back %.3f after %d attempts",
		f.Instrument, f.Command, f.Want, f.Got, f.Attempts)
}

func (f *InstrumentFault) Unwrap() error { return f.Err }

// IsInstrumentFault сообщает, является ли ошибка отказом прибора.
func IsInstrumentFault(err error) bool {
	var f *InstrumentFault
	return errors.As(err, &f)
}
