package scpi

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

// SocketTransport - SCPI поверх TCP-сокета (порт программирования NHR 9400).
// Команды завершаются переводом строки; ответы прибор присылает одной
// строкой, иногда с мусорными NUL-байтами, которые вырезаются.
type SocketTransport struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	closed  bool
}

// DialSocket открывает TCP-подключение к прибору по адресу "IP:PORT".
func DialSocket(addr string, timeout time.Duration) (*SocketTransport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к прибору '%s': %w", addr, err)
	}
	return &SocketTransport{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}, nil
}

func (t *SocketTransport) Send(cmd string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return apperrors.ErrTransportClosed
	}
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if _, err := t.conn.Write([]byte(cmd + "\n")); err != nil {
		return classifyNetError(cmd, err)
	}
	return nil
}

func (t *SocketTransport) Query(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", apperrors.ErrTransportClosed
	}
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if _, err := t.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", classifyNetError(cmd, err)
	}

	_ = t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", classifyNetError(cmd, err)
	}
	return cleanResponse(line), nil
}

func (t *SocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

// cleanResponse убирает NUL-байты и обрамляющие пробелы из ответа прибора.
func cleanResponse(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "\x00", ""))
}

func classifyNetError(cmd string, err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return fmt.Errorf("%w: команда %q", apperrors.ErrTransportTimeout, cmd)
	}
	return fmt.Errorf("transport error on %q: %w", cmd, err)
}
