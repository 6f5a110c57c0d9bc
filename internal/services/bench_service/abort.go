package bench_service

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"github.com/iwtcode/benchService/internal/middleware/logging"
)

// Monitor - липкий односторонний флаг запроса останова. Пишется один раз
// наблюдателем, читается движком между шагами; другой разделяемой
// изменяемой памяти у движка и наблюдателя нет.
type Monitor struct {
	flag atomic.Bool
}

func NewMonitor() *Monitor { return &Monitor{} }

func (m *Monitor) Request() { m.flag.Store(true) }

func (m *Monitor) Requested() bool { return m.flag.Load() }

// WatchKeys читает поток оператора в отдельной горутине и вызывает onAbort
// при нажатии назначенной клавиши. Поток команд приборам при этом никогда
// не ждет ввода оператора.
func WatchKeys(r io.Reader, key string, logger *logging.Logger, onAbort func()) {
	key = strings.ToLower(key)
	if key == "" {
		key = "q"
	}
	log := logger.WithPrefix("ABORT")

	go func() {
		reader := bufio.NewReader(r)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				log.Debug("Operator input stream closed", "error", err)
				return
			}
			if strings.ToLower(string(b)) == key {
				log.Warn("Abort key pressed by operator")
				onAbort()
			}
		}
	}()
}
