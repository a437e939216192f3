package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "push failed",
		Data:    logrus.Fields{"table": "address", "rows": 3},
		Caller:  &runtime.Frame{File: "/src/engine/engine.go", Line: 42},
		Logger:  &logrus.Logger{ReportCaller: true},
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-15 08:30:00] [WARN] [engine.go:42] push failed rows=3 table=address\n", string(out))
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fff.log")
	require.NoError(t, InitLogger("debug", path))
	t.Cleanup(func() { Log = logrus.New() })

	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	Log.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] [logger_test.go:")
	assert.Contains(t, string(data), "hello")
}

func TestInitLoggerBadLevel(t *testing.T) {
	require.NoError(t, InitLogger("loud", ""))
	t.Cleanup(func() { Log = logrus.New() })
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
