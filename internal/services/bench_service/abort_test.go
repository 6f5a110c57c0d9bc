package bench_service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonitorIsSticky(t *testing.T) {
	m := NewMonitor()
	require.False(t, m.Requested())

	m.Request()
	require.True(t, m.Requested())
	require.True(t, m.Requested(), "Флаг останова не сбрасывается")
}

func TestWatchKeysTriggersOnKey(t *testing.T) {
	fired := make(chan struct{}, 4)
	WatchKeys(strings.NewReader("abQ\n"), "q", testLogger(), func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Нажатие клавиши останова не было замечено")
	}
}

func TestWatchKeysIgnoresOtherKeys(t *testing.T) {
	fired := make(chan struct{}, 4)
	WatchKeys(strings.NewReader("abc\n"), "q", testLogger(), func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
		t.Fatal("Останов сработал на постороннюю клавишу")
	case <-time.After(100 * time.Millisecond):
	}
}
