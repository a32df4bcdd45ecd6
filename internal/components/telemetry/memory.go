package telemetry

import (
	"strings"
	"sync"
)

// Level is the kind of report a MemoryAPI recorded.
type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

// Report is a single call recorded by MemoryAPI.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// MemoryAPI records every report it receives so tests can assert on them.
type MemoryAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (m *MemoryAPI) record(r Report) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reports = append(m.reports, r)
}

func (m *MemoryAPI) ReportBroken(id string, params ...any) {
	m.record(Report{Level: LevelBroken, ID: id, Params: params})
}

func (m *MemoryAPI) ReportWarning(id string, params ...any) {
	m.record(Report{Level: LevelWarning, ID: id, Params: params})
}

func (m *MemoryAPI) ReportDebug(msg string, params ...any) {
	m.record(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (m *MemoryAPI) ReportCount(id string, count int64) {
	m.record(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of everything recorded so far.
func (m *MemoryAPI) Reports() []Report {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// Find returns the reports of the given level whose id ends with suffix.
func (m *MemoryAPI) Find(level Level, suffix string) []Report {
	var out []Report
	for _, r := range m.Reports() {
		if r.Level == level && strings.HasSuffix(r.ID, suffix) {
			out = append(out, r)
		}
	}
	return out
}
