package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(level Level, msg string) *Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = level
	entry.Message = msg
	entry.Time = time.Now()
	return entry
}

func TestRoutingHook_Fire(t *testing.T) {
	t.Parallel()

	newHook := func() (*routingHook, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
		main := &bytes.Buffer{}
		critical := &bytes.Buffer{}
		verbose := &bytes.Buffer{}
		console := &bytes.Buffer{}

		h := &routingHook{
			mainWriter:     main,
			criticalWriter: critical,
			verboseWriter:  verbose,
			consoleWriter:  console,
			formatter:      &logrus.TextFormatter{DisableColors: true},
		}
		return h, main, critical, verbose, console
	}

	t.Run("성공: Error 레벨은 Critical과 Main에 모두 기록", func(t *testing.T) {
		t.Parallel()

		h, main, critical, verbose, console := newHook()
		require.NoError(t, h.Fire(newTestEntry(ErrorLevel, "에러 발생")))

		assert.Contains(t, main.String(), "에러 발생")
		assert.Contains(t, critical.String(), "에러 발생")
		assert.Empty(t, verbose.String())
		assert.Contains(t, console.String(), "에러 발생")
	})

	t.Run("성공: Info 레벨은 Main에만 기록", func(t *testing.T) {
		t.Parallel()

		h, main, critical, verbose, _ := newHook()
		require.NoError(t, h.Fire(newTestEntry(InfoLevel, "정보 로그")))

		assert.Contains(t, main.String(), "정보 로그")
		assert.Empty(t, critical.String())
		assert.Empty(t, verbose.String())
	})

	t.Run("성공: Debug 레벨은 Verbose에만 기록되고 Main은 오염되지 않음", func(t *testing.T) {
		t.Parallel()

		h, main, critical, verbose, _ := newHook()
		require.NoError(t, h.Fire(newTestEntry(DebugLevel, "디버그 로그")))

		assert.Empty(t, main.String())
		assert.Empty(t, critical.String())
		assert.Contains(t, verbose.String(), "디버그 로그")
	})

	t.Run("성공: Close 이후의 로그는 무시됨", func(t *testing.T) {
		t.Parallel()

		h, main, _, _, _ := newHook()
		require.NoError(t, h.Close())
		require.NoError(t, h.Fire(newTestEntry(InfoLevel, "버려질 로그")))

		assert.Empty(t, main.String())
	})
}

func TestCloser_Close(t *testing.T) {
	t.Parallel()

	t.Run("성공: 중복 Close 호출은 안전함", func(t *testing.T) {
		t.Parallel()

		c := &closer{hook: &routingHook{formatter: &logrus.TextFormatter{}}}
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}
