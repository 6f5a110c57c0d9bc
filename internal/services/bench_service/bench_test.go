package bench_service

import (
	"strconv"
	"strings"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/middleware/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
}

func testPlan() models.SweepPlan {
	return models.SweepPlan{
		Voltage: models.Range{Start: 100, Stop: 120, Step: 10, Unit: "V"},
		Current: models.Range{Start: 1, Stop: 3, Step: 1, Unit: "A"},
		Settle:  0,
		Limits: models.SafetyLimits{
			MaxVoltage:  300,
			MaxCurrent:  10,
			MaxPower:    5000,
			Frequency:   50,
			CrestFactor: 1.414,
			PowerFactor: 1.0,
		},
		Readback: models.Readback{Retries: 3, Tolerance: 0.1},
	}
}

// stubTransport изображает прибор: запоминает все команды и отвечает на
// запросы исходя из последних уставок, как сделал бы исправный прибор.
// Ответы и ошибки на отдельные команды переопределяются через replies,
// failSend и failQuery.
type stubTransport struct {
	sent      []string
	volt      float64
	curr      float64
	replies   map[string]string
	failSend  map[string]error
	failQuery map[string]error
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		replies:   map[string]string{},
		failSend:  map[string]error{},
		failQuery: map[string]error{},
	}
}

func (s *stubTransport) Send(cmd string) error {
	s.sent = append(s.sent, cmd)
	if err := s.failSend[cmd]; err != nil {
		return err
	}

	fields := strings.Fields(cmd)
	if len(fields) != 2 {
		return nil
	}
	val, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil
	}
	switch fields[0] {
	case "VOLTage":
		s.volt = val
	case "CURR", "CURRent":
		s.curr = val
	}
	return nil
}

func (s *stubTransport) Query(cmd string) (string, error) {
	s.sent = append(s.sent, cmd)
	if err := s.failQuery[cmd]; err != nil {
		return "", err
	}
	if resp, ok := s.replies[cmd]; ok {
		return resp, nil
	}

	switch cmd {
	case "MEASure:VOLTage?":
		return formatStub(s.volt), nil
	case "CURRent?", "MEASure:CURRent?":
		return formatStub(s.curr), nil
	case "MEASure:POWer?":
		return formatStub(s.volt * s.curr), nil
	case "SOURce:SAFety?":
		return "300,10,5000", nil
	case "SYSTem:ERRor?":
		return "0, No Error", nil
	case "LOAD:STATus?":
		return "1", nil
	case "*IDN?":
		return "Chroma,63804,638040000001,1.30", nil
	}
	return "", nil
}

func (s *stubTransport) Close() error { return nil }

func formatStub(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// indexOf возвращает позицию первой команды с данным префиксом или -1.
func indexOf(cmds []string, prefix string) int {
	for i, c := range cmds {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func noSleep(time.Duration) {}

// --- Заглушки контроллеров и приемника для тестов движка ---

type fakeSource struct {
	calls      []string
	bringUpErr error
	setErr     func(call int, v float64) error
	setCalls   int
	downCalls  int
	mode       models.SessionMode
}

func (f *fakeSource) BringUp() error {
	f.calls = append(f.calls, "BringUp")
	if f.bringUpErr != nil {
		f.mode = models.ModeFaulted
		return f.bringUpErr
	}
	f.mode = models.ModeEnergized
	return nil
}

func (f *fakeSource) SetVoltage(v float64) (float64, error) {
	f.calls = append(f.calls, "SetVoltage")
	f.setCalls++
	if f.setErr != nil {
		if err := f.setErr(f.setCalls, v); err != nil {
			f.mode = models.ModeFaulted
			return 0, err
		}
	}
	return v, nil
}

func (f *fakeSource) MeasureVoltage() (float64, error) {
	f.calls = append(f.calls, "MeasureVoltage")
	return 120, nil
}

func (f *fakeSource) BringDown() error {
	f.calls = append(f.calls, "BringDown")
	f.downCalls++
	f.mode = models.ModeDisabled
	return nil
}

func (f *fakeSource) Mode() models.SessionMode { return f.mode }

type fakeLoad struct {
	calls        []string
	bringUpErr   error
	setErr       func(call int, i float64) error
	bringDownErr error
	setCalls     int
	downCalls    int
	mode         models.SessionMode
}

func (f *fakeLoad) BringUp() error {
	f.calls = append(f.calls, "BringUp")
	if f.bringUpErr != nil {
		f.mode = models.ModeFaulted
		return f.bringUpErr
	}
	f.mode = models.ModeEnergized
	return nil
}

func (f *fakeLoad) SetCurrent(i float64) error {
	f.calls = append(f.calls, "SetCurrent")
	f.setCalls++
	if f.setErr != nil {
		if err := f.setErr(f.setCalls, i); err != nil {
			f.mode = models.ModeFaulted
			return err
		}
	}
	return nil
}

func (f *fakeLoad) Measure() (models.Measurement, error) {
	f.calls = append(f.calls, "Measure")
	return models.Measurement{Voltage: 120, Current: 2, Power: 240}, nil
}

func (f *fakeLoad) BringDown() error {
	f.calls = append(f.calls, "BringDown")
	f.downCalls++
	if f.bringDownErr != nil {
		f.mode = models.ModeFaulted
		return f.bringDownErr
	}
	f.mode = models.ModeDisabled
	return nil
}

func (f *fakeLoad) Mode() models.SessionMode { return f.mode }

// memorySink копит записи в памяти и по желанию дергает колбэк после
// каждой принятой строки.
type memorySink struct {
	records   []models.StepRecord
	outcome   *models.RunOutcome
	finalized bool
	onAppend  func(n int)
}

func (s *memorySink) Append(rec models.StepRecord) error {
	s.records = append(s.records, rec)
	if s.onAppend != nil {
		s.onAppend(len(s.records))
	}
	return nil
}

func (s *memorySink) Finalize(outcome models.RunOutcome) error {
	s.finalized = true
	s.outcome = &outcome
	return nil
}
