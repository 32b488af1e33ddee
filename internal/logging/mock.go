package logging

import "sync"

// MockEntry is one recorded log call.
type MockEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Err     error
}

// mockSink collects entries from a MockLogger and every logger derived
// from it, so tests can inspect all of them in one place.
type mockSink struct {
	mu      sync.Mutex
	entries []*MockEntry
}

// MockLogger records log calls for inspection in tests. WithError and
// WithField return derived loggers feeding the same sink; the receiver
// itself is never mutated.
type MockLogger struct {
	sink   *mockSink
	err    error
	fields map[string]interface{}
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &mockSink{}}
}

// Entries returns a copy of all recorded entries, including those logged
// through derived loggers.
func (m *MockLogger) Entries() []*MockEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]*MockEntry, len(m.sink.entries))
	copy(out, m.sink.entries)
	return out
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	merged := make(map[string]interface{}, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = append(m.sink.entries, &MockEntry{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Err:     m.err,
	})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

// Fatal records the entry instead of exiting so tests can assert on it.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	clone := m.clone()
	clone.err = err
	return clone
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	clone := m.clone()
	clone.fields[key] = value
	return clone
}

func (m *MockLogger) clone() *MockLogger {
	fields := make(map[string]interface{}, len(m.fields)+1)
	for k, v := range m.fields {
		fields[k] = v
	}
	return &MockLogger{sink: m.sink, err: m.err, fields: fields}
}
