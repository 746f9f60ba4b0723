package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failure")
}

func TestSetupGlobalLogger(t *testing.T) {
	err := SetupGlobalLogger(nil)
	assert.Error(t, err)

	cfg := GenDefaultSettings()
	cfg.Output = "nope"
	err = SetupGlobalLogger(&cfg)
	assert.ErrorIs(t, err, errUnhandledOutputWriter)

	cfg = GenDefaultSettings()
	cfg.SubLoggers = []SubLoggerConfig{{Name: "backtester", Level: "ERROR", Output: "stderr"}}
	err = SetupGlobalLogger(&cfg)
	require.NoError(t, err)
	assert.True(t, BackTester.levels.Error)
	assert.False(t, BackTester.levels.Info)
	assert.True(t, ConfigMgr.levels.Info)

	cfg.SubLoggers = []SubLoggerConfig{{Name: "missing", Level: "ERROR", Output: "stdout"}}
	err = SetupGlobalLogger(&cfg)
	assert.ErrorIs(t, err, errSubLoggerNotFound)

	cfg = GenDefaultSettings()
	err = SetupGlobalLogger(&cfg)
	require.NoError(t, err)
}

func TestSplitLevel(t *testing.T) {
	t.Parallel()
	l := splitLevel("INFO|error")
	assert.True(t, l.Info)
	assert.True(t, l.Error)
	assert.False(t, l.Debug)
	assert.False(t, l.Warn)
	assert.Equal(t, Levels{}, splitLevel(""))
}

func TestNewSubLogger(t *testing.T) {
	t.Parallel()
	_, err := NewSubLogger("")
	assert.ErrorIs(t, err, errEmptySubLoggerName)

	sl, err := NewSubLogger("newsublogger")
	require.NoError(t, err)
	assert.Equal(t, "NEWSUBLOGGER", sl.Name())

	_, err = NewSubLogger("NewSubLogger")
	assert.ErrorIs(t, err, errSubLoggerExists)
}

func TestAddWriter(t *testing.T) {
	t.Parallel()
	err := AddWriter(nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNilSubLogger)

	sl, err := NewSubLogger("addwriter")
	require.NoError(t, err)
	sl.levels = splitLevel("INFO|WARN|ERROR")

	var buf bytes.Buffer
	err = AddWriter(sl, &buf)
	require.NoError(t, err)
	err = AddWriter(sl, &buf)
	assert.ErrorIs(t, err, errWriterAlreadyLoaded)

	Infof(sl, "bar %d", 1337)
	Debugln(sl, "hidden")
	Warn(sl, "careful")
	Errorln(sl, "broken", 1)
	out := buf.String()
	assert.Contains(t, out, "bar 1337")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "broken1")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 3, strings.Count(out, "\n"))

	err = RemoveWriter(sl, &buf)
	require.NoError(t, err)
	err = RemoveWriter(sl, &buf)
	assert.ErrorIs(t, err, errWriterNotFound)
	Info(sl, "after removal")
	assert.NotContains(t, buf.String(), "after removal")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer
	mw, err := MultiWriter(&a, &b)
	require.NoError(t, err)
	n, err := mw.Write([]byte("leet"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "leet", a.String())
	assert.Equal(t, "leet", b.String())

	_, err = MultiWriter(&a, &a)
	assert.ErrorIs(t, err, errWriterAlreadyLoaded)

	err = mw.Add(nil)
	assert.ErrorIs(t, err, errNilWriter)

	err = mw.Add(failWriter{})
	require.NoError(t, err)
	_, err = mw.Write([]byte("leet"))
	assert.Error(t, err)
}

func TestNilSubLogger(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Infof(nil, "nothing %v", 1) })
	assert.Empty(t, (*SubLogger)(nil).Name())
}
