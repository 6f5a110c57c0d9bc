package scpi

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	addr, err := ParseResource("GPIB0::8::INSTR")
	require.NoError(t, err)
	require.Equal(t, 8, addr)

	_, err = ParseResource("USB0::0x1234::INSTR")
	require.Error(t, err, "Не-GPIB ресурс должен отклоняться")

	_, err = ParseResource("GPIB0::99::INSTR")
	require.Error(t, err, "GPIB-адрес вне диапазона 0..30 должен отклоняться")

	_, err = ParseResource("GPIB0")
	require.Error(t, err)
}

// startGatewayStub имитирует Prologix-шлюз: служебные "++" команды
// подтверждаются молча, "++read eoi" отдает последний подготовленный ответ.
func startGatewayStub(t *testing.T, respond map[string]string) (addr string, received func() []string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var mu sync.Mutex
	var log []string
	received = func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), log...)
	}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var pending string
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			mu.Lock()
			log = append(log, cmd)
			mu.Unlock()
			if cmd == "++read eoi" {
				_, _ = conn.Write([]byte(pending + "\n"))
				continue
			}
			if resp, ok := respond[cmd]; ok {
				pending = resp
			}
		}
	}()

	return ln.Addr().String(), received
}

func TestGPIBTransportSetupSequence(t *testing.T) {
	addr, received := startGatewayStub(t, nil)

	tr, err := DialGPIB(addr, "GPIB0::8::INSTR", time.Second)
	require.NoError(t, err, "Не удалось подключиться к заглушке шлюза")
	defer tr.Close()

	require.NoError(t, tr.Send("MODE ACF"))

	require.Eventually(t, func() bool {
		return len(received()) >= 6
	}, time.Second, 10*time.Millisecond)

	got := received()
	require.Equal(t, "++mode 1", got[0], "Шлюз должен переводиться в режим контроллера первым")
	require.Equal(t, "++addr 8", got[1], "Адрес прибора берется из VISA-ресурса")
	require.Contains(t, got, "++auto 0")
	require.Contains(t, got, "++eoi 1")
	require.Equal(t, "MODE ACF", got[len(got)-1])
}

func TestGPIBTransportQuery(t *testing.T) {
	addr, received := startGatewayStub(t, map[string]string{
		"*IDN?": "Chroma,63804,000001,1.30",
	})

	tr, err := DialGPIB(addr, "GPIB0::8::INSTR", time.Second)
	require.NoError(t, err)
	defer tr.Close()

	idn, err := tr.Query("*IDN?")
	require.NoError(t, err)
	require.Equal(t, "Chroma,63804,000001,1.30", idn)

	// Запрос должен сопровождаться явным "++read eoi"
	got := received()
	require.Equal(t, "++read eoi", got[len(got)-1])
	require.Equal(t, "*IDN?", got[len(got)-2])
}

func TestGPIBTransportClear(t *testing.T) {
	addr, received := startGatewayStub(t, nil)

	tr, err := DialGPIB(addr, "GPIB0::8::INSTR", time.Second)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Clear())
	require.Eventually(t, func() bool {
		got := received()
		return len(got) > 0 && got[len(got)-1] == "++clr"
	}, time.Second, 10*time.Millisecond)
}
