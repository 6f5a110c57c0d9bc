package scpi

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

// GPIBTransport - SCPI поверх Prologix-совместимого Ethernet-GPIB шлюза.
// Шлюз управляется служебными командами "++...", сами SCPI-команды уходят
// на прибор с выбранным GPIB-адресом. Автоматическое чтение отключено:
// ответ запрашивается явно через "++read eoi".
type GPIBTransport struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	addr    int
	closed  bool
}

// ParseResource извлекает GPIB-адрес прибора из VISA-строки вида
// "GPIB0::8::INSTR".
func ParseResource(resource string) (int, error) {
	parts := strings.Split(resource, "::")
	if len(parts) < 2 || !strings.HasPrefix(strings.ToUpper(parts[0]), "GPIB") {
		return 0, fmt.Errorf("неверный формат VISA-ресурса: '%s'", resource)
	}
	addr, err := strconv.Atoi(parts[1])
	if err != nil || addr < 0 || addr > 30 {
		return 0, fmt.Errorf("неверный GPIB-адрес в ресурсе '%s'", resource)
	}
	return addr, nil
}

// DialGPIB подключается к шлюзу и настраивает его на работу с прибором,
// заданным VISA-ресурсом.
func DialGPIB(gateway, resource string, timeout time.Duration) (*GPIBTransport, error) {
	addr, err := ParseResource(resource)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("tcp", gateway, timeout)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к GPIB-шлюзу '%s': %w", gateway, err)
	}

	t := &GPIBTransport{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
		addr:    addr,
	}

	// Контроллер в режиме CONTROLLER, адрес прибора, чтение только по
	// запросу, EOI как признак конца команды.
	setup := []string{
		"++mode 1",
		fmt.Sprintf("++addr %d", addr),
		"++auto 0",
		"++eoi 1",
		fmt.Sprintf("++read_tmo_ms %d", timeout.Milliseconds()),
	}
	for _, cmd := range setup {
		if err := t.writeLine(cmd); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("не удалось настроить GPIB-шлюз: %w", err)
		}
	}

	return t, nil
}

// Clear выполняет selected device clear для прибора.
func (t *GPIBTransport) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return apperrors.ErrTransportClosed
	}
	return t.writeLine("++clr")
}

func (t *GPIBTransport) Send(cmd string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return apperrors.ErrTransportClosed
	}
	return t.writeLine(cmd)
}

func (t *GPIBTransport) Query(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", apperrors.ErrTransportClosed
	}
	if err := t.writeLine(cmd); err != nil {
		return "", err
	}
	if err := t.writeLine("++read eoi"); err != nil {
		return "", err
	}

	_ = t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", classifyNetError(cmd, err)
	}
	return cleanResponse(line), nil
}

func (t *GPIBTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

func (t *GPIBTransport) writeLine(cmd string) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if _, err := t.conn.Write([]byte(cmd + "\n")); err != nil {
		return classifyNetError(cmd, err)
	}
	return nil
}
