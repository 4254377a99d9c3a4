package logquery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Level filters log lines by severity. Matching is a literal substring test
// against the raw line, so "INFO" appearing anywhere in a line passes the
// INFO filter. That is the contract, not an accident to fix.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// ParseLevel validates a level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return l, nil
	}
	return "", fmt.Errorf("invalid log level %q", s)
}

// Order is the sort direction over raw line text.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case OrderAsc, OrderDesc:
		return o, nil
	}
	return "", fmt.Errorf("invalid order %q", s)
}

// Defaults applied when a query field is left zero.
const DefaultAmount = 100

const (
	DefaultLevel = LevelInfo
	DefaultOrder = OrderDesc
)

// Entry is one parsed log line.
type Entry struct {
	DateTime string `json:"date_time"`
	Level    string `json:"level"`
	Message  string `json:"message"`
}

// Query describes one log retrieval.
type Query struct {
	LogFile string
	Amount  int
	Message string
	Order   Order
	Level   Level
}

// ErrLogNotFound reports a missing log file.
var ErrLogNotFound = errors.New("log file not found")

// ParseError reports a log line inside the result window that does not match
// the expected "[timestamp] [level] message" pattern. It aborts the query.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed log line: %q", e.Line)
}

var linePattern = regexp.MustCompile(`^\[(.*?)\] \[(.*?)\] (.*)`)

// Engine answers log queries against files under a fixed root directory.
type Engine struct {
	dir string
}

// NewEngine creates an engine rooted at dir.
func NewEngine(dir string) *Engine {
	return &Engine{dir: dir}
}

// Logs runs a query. The processing order is load, message filter, level
// filter, sort by raw line text, truncate, parse; the result depends on that
// order, so it must not be rearranged. Only lines surviving truncation are
// parsed, so a malformed line dropped earlier never fails the query.
func (e *Engine) Logs(q Query) ([]Entry, error) {
	if q.Amount <= 0 {
		q.Amount = DefaultAmount
	}
	if q.Order == "" {
		q.Order = DefaultOrder
	}
	if q.Level == "" {
		q.Level = DefaultLevel
	}

	data, err := os.ReadFile(filepath.Join(e.dir, q.LogFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, q.LogFile)
		}
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	lines := splitLines(string(data))

	if q.Message != "" {
		lines = filterContains(lines, q.Message)
	}
	lines = filterContains(lines, string(q.Level))

	if q.Order == OrderDesc {
		sort.Sort(sort.Reverse(sort.StringSlice(lines)))
	} else {
		sort.Strings(lines)
	}

	if len(lines) > q.Amount {
		lines = lines[:q.Amount]
	}

	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			return nil, &ParseError{Line: line}
		}
		entries = append(entries, Entry{DateTime: m[1], Level: m[2], Message: m[3]})
	}

	return entries, nil
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func filterContains(lines []string, substr string) []string {
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, substr) {
			kept = append(kept, line)
		}
	}
	return kept
}
