package logquery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLogs_LevelFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] a\n[2024-01-02 00:00:00] [ERROR] b\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Level: LevelInfo})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, Entry{DateTime: "2024-01-01 00:00:00", Level: "INFO", Message: "a"}, entries[0])
}

func TestLogs_LevelFilterIsSubstringMatch(t *testing.T) {
	t.Parallel()

	// The level filter is a raw-line substring test: an ERROR line whose
	// message mentions "INFO" passes the INFO filter. Literal contract.
	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [ERROR] switching INFO logging off\n[2024-01-02 00:00:00] [ERROR] b\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Level: LevelInfo})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0].Level)
	assert.Equal(t, "switching INFO logging off", entries[0].Message)
}

func TestLogs_DefaultOrderIsDescending(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] a\n[2024-01-03 00:00:00] [INFO] c\n[2024-01-02 00:00:00] [INFO] b\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log"})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-03 00:00:00", entries[0].DateTime)
	assert.Equal(t, "2024-01-02 00:00:00", entries[1].DateTime)
	assert.Equal(t, "2024-01-01 00:00:00", entries[2].DateTime)
}

func TestLogs_AscendingOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-02 00:00:00] [INFO] b\n[2024-01-01 00:00:00] [INFO] a\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Order: OrderAsc})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)
}

func TestLogs_MessageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] connection opened\n[2024-01-02 00:00:00] [INFO] connection closed\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Message: "closed"})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "connection closed", entries[0].Message)
}

func TestLogs_AmountTruncatesAfterSortBeforeParse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] a\n[2024-01-02 00:00:00] [INFO] b\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Amount: 1})
	require.NoError(t, err)

	// Truncation happens after the descending sort, so the later line wins.
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Message)
}

func TestLogs_MalformedLineInWindow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] a\nINFO without brackets\n")

	engine := NewEngine(dir)
	_, err := engine.Logs(Query{LogFile: "app.log"})

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "INFO without brackets", parseErr.Line)
}

func TestLogs_MalformedLineOutsideWindow(t *testing.T) {
	t.Parallel()

	// With desc order and amount=1 the malformed line sorts below the valid
	// one and is dropped before parsing, so the query succeeds.
	dir := t.TempDir()
	writeLog(t, dir, "app.log",
		"[2024-01-01 00:00:00] [INFO] a\nINFO without brackets\n")

	engine := NewEngine(dir)
	entries, err := engine.Logs(Query{LogFile: "app.log", Amount: 1})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Message)
}

func TestLogs_MissingFile(t *testing.T) {
	t.Parallel()

	engine := NewEngine(t.TempDir())
	_, err := engine.Logs(Query{LogFile: "nope.log"})
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"} {
		level, err := ParseLevel(valid)
		require.NoError(t, err)
		assert.Equal(t, Level(valid), level)
	}

	_, err := ParseLevel("TRACE")
	assert.Error(t, err)
	_, err = ParseLevel("info")
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"asc", "desc"} {
		order, err := ParseOrder(valid)
		require.NoError(t, err)
		assert.Equal(t, Order(valid), order)
	}

	_, err := ParseOrder("descending")
	assert.Error(t, err)
}
