package helpers

import (
	"bytes"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIntervalToDuration(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"1m":  time.Minute,
		"1h":  time.Hour,
		"1d":  24 * time.Hour,
		"5s":  5 * time.Second,
		" 1h": time.Hour,
	} {
		got, err := StringIntervalToDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := StringIntervalToDuration("soon")
	assert.Error(t, err)
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"Foo", "Bar"}, UniqueStrings([]string{"Foo", "", "Bar", "Foo"}))
	assert.Nil(t, UniqueStrings(nil))
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, int64(2), CeilDiv(86_400_000, 60_000_000))
	assert.Equal(t, int64(1), CeilDiv(60_000_000, 60_000_000))
	assert.Equal(t, int64(0), CeilDiv(0, 10))
	assert.Equal(t, int64(0), CeilDiv(-5, 10))
}

func TestSubstringBeforeLast(t *testing.T) {
	assert.Equal(t, "Foo ", SubstringBeforeLast("Foo FOO FOO", "FOO FOO"))
	assert.Equal(t, "Foo", SubstringBeforeLast("Foo", "BAR BAR"))
	assert.Equal(t, "Foo", SubstringBeforeLast("Foo", ""))
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "Foo FOO", NormalizeSpace("\n   Foo\n\t  FOO  "))
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger()
	logger.SetWriter(&buf)

	logger.WithFields(log.Fields{"page": 2, "attempt": 1}).Warnln("fetch failed")

	line := buf.String()
	assert.Contains(t, line, "WARN ")
	assert.Contains(t, line, "fetch failed attempt=1 page=2")
}

func TestConfigureRejectsTelegramWithoutToken(t *testing.T) {
	logger := NewFileLogger()
	err := logger.Configure(LogOptions{TelegramOutput: true})
	assert.Error(t, err)
}

func TestConfigureWritesToFile(t *testing.T) {
	logger := NewFileLogger()
	path := t.TempDir() + "/market.log"
	require.NoError(t, logger.Configure(LogOptions{File: path, Level: "debug"}))
	defer logger.Close()

	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	logger.Debugln("hello")
}
