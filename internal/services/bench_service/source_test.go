package bench_service

import (
	"errors"
	"testing"

	"github.com/iwtcode/benchService/internal/domain/models"
	apperrors "github.com/iwtcode/benchService/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestSource(tr *stubTransport) *SourceController {
	c := NewSourceController(tr, 3, testPlan(), testLogger())
	c.sleep = noSleep
	return c
}

func TestSourceBringUpSequence(t *testing.T) {
	tr := newStubTransport()
	c := newTestSource(tr)

	require.NoError(t, c.BringUp())
	require.Equal(t, models.ModeEnergized, c.Mode())

	// Пределы выставляются до стартового напряжения, выход включается последним
	sel := indexOf(tr.sent, "INSTrument:NSELect 3")
	curr := indexOf(tr.sent, "SOURce:CURRent ")
	pow := indexOf(tr.sent, "SOURce:POWer ")
	volt := indexOf(tr.sent, "VOLTage 100")
	on := indexOf(tr.sent, "OUTPut ON")
	require.Equal(t, 0, sel, "Выбор инструмента должен идти первым")
	require.Less(t, curr, volt)
	require.Less(t, pow, volt)
	require.Less(t, volt, on, "Стартовое напряжение задается до включения выхода")
	require.Greater(t, indexOf(tr.sent, "MEASure:VOLTage?"), on, "Подтверждение читается после включения")
}

func TestSourceSetVoltageConfirms(t *testing.T) {
	tr := newStubTransport()
	c := newTestSource(tr)
	require.NoError(t, c.BringUp())

	meas, err := c.SetVoltage(110)
	require.NoError(t, err)
	require.InDelta(t, 110, meas, 0.1)
	require.Equal(t, models.ModeEnergized, c.Mode())
}

func TestSourceConfirmMismatchFaults(t *testing.T) {
	tr := newStubTransport()
	tr.replies["MEASure:VOLTage?"] = "50.0"
	c := newTestSource(tr)

	err := c.BringUp()
	require.Error(t, err)
	require.Equal(t, models.ModeFaulted, c.Mode())

	var fault *apperrors.InstrumentFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "source", fault.Instrument)
	require.Equal(t, 3, fault.Attempts, "Число попыток подтверждения задано планом")
	require.InDelta(t, 50.0, fault.Got, 0.001)

	// Три чтения подтверждения, не больше
	reads := 0
	for _, cmd := range tr.sent {
		if cmd == "MEASure:VOLTage?" {
			reads++
		}
	}
	require.Equal(t, 3, reads)
}

func TestSourceSendFailureFaults(t *testing.T) {
	tr := newStubTransport()
	tr.failSend["OUTPut ON"] = errors.New("broken pipe")
	c := newTestSource(tr)

	err := c.BringUp()
	require.Error(t, err)
	require.Equal(t, models.ModeFaulted, c.Mode())
	require.True(t, apperrors.IsInstrumentFault(err))
}

func TestSourceBringDown(t *testing.T) {
	tr := newStubTransport()
	c := newTestSource(tr)
	require.NoError(t, c.BringUp())

	require.NoError(t, c.BringDown())
	require.Equal(t, models.ModeDisabled, c.Mode())

	zero := indexOf(tr.sent, "VOLTage 0")
	off := indexOf(tr.sent, "OUTPut OFF")
	require.Greater(t, zero, -1)
	require.Less(t, zero, off, "Напряжение снимается до выключения выхода")

	// Повторный останов не шлет команд
	n := len(tr.sent)
	require.NoError(t, c.BringDown())
	require.Len(t, tr.sent, n)
}

func TestSourceBringDownSkipsUninitialized(t *testing.T) {
	tr := newStubTransport()
	c := newTestSource(tr)

	require.NoError(t, c.BringDown())
	require.Empty(t, tr.sent, "До инициализации прибору ничего не посылается")
}

func TestParseMeasurementToleratesGarbage(t *testing.T) {
	require.InDelta(t, 119.987, parseMeasurement("119.987"), 0.0001)
	v := parseMeasurement("not-a-number")
	require.NotEqual(t, v, v, "Нечитаемый ответ дает NaN")
}
