package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "scraped version",
			fields:  Fields{"version": "4.2"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "scrape failed",
			err:     errors.New("no table found"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := buf.Len()
			logger.log(tt.level, tt.message, tt.fields, tt.err)
			logged := buf.Len() > before

			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_EntryFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)
	logger.now = func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	logger.Error("scrape failed", Fields{"version": "4.1"}, errors.New("status 404"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v (line %q)", err, buf.String())
	}

	if entry.Timestamp != "2026-01-01T00:00:00Z" {
		t.Errorf("Timestamp = %q", entry.Timestamp)
	}
	if entry.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", entry.Level)
	}
	if entry.Fields["version"] != "4.1" {
		t.Errorf("Fields[version] = %v, want 4.1", entry.Fields["version"])
	}
	if entry.Error != "status 404" {
		t.Errorf("Error = %q, want status 404", entry.Error)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("entry should end with a newline")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" Warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("scrape.success")
	m.IncrCounter("scrape.success")
	m.IncrCounter("scrape.success")

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	if counters["scrape.success"] != 3 {
		t.Errorf("Counter = %v, want 3", counters["scrape.success"])
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("scrape.entries.4.2", 900)
	m.SetGauge("scrape.entries.4.2", 950)

	gauges := m.GetSnapshot()["gauges"].(map[string]float64)
	if gauges["scrape.entries.4.2"] != 950 {
		t.Errorf("Gauge = %v, want 950", gauges["scrape.entries.4.2"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("scrape.duration", 100*time.Millisecond)
	m.RecordTiming("scrape.duration", 200*time.Millisecond)
	m.RecordTiming("scrape.duration", 150*time.Millisecond)

	timings := m.GetSnapshot()["timings"].(map[string]map[string]interface{})

	stats := timings["scrape.duration"]
	if stats["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", stats["count"])
	}
	if stats["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", stats["min"])
	}
	if stats["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", stats["max"])
	}
	if stats["average"].(string) != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", stats["average"])
	}
}

func TestLogger_LevelMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	logger.Debug("hidden", nil)
	logger.Info("saved mappings", Fields{"versions": 2})
	logger.Warn("scrape failed", Fields{"version": "4.1"})
	logger.Error("saving mappings failed", nil, errors.New("no such directory"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3: %q", len(lines), buf.String())
	}
	for i, want := range []string{"INFO", "WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("line %d level = %q, want %q", i, entry.Level, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("ignored", nil, errors.New("x"))
	l.Metrics().IncrCounter("still.counted")

	counters := l.Metrics().GetSnapshot()["counters"].(map[string]int64)
	if counters["still.counted"] != 1 {
		t.Errorf("counter = %d, want 1", counters["still.counted"])
	}
}
