package game

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Diagnostics is the sink every component reports to. Categories group
// related events (sensor, planner, move, round); keys name the event.
type Diagnostics interface {
	Add(at time.Duration, actor, category, key, value string, numVal float64)
}

// SimLogEntry is one recorded event.
type SimLogEntry struct {
	At       time.Duration
	Actor    string  // label e.g. "H0", "S0", or "--" for global events
	Category string  // sensor, planner, move, round
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=012.25s] H0   planner   destination      (18.9,0.0,21.5)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%07.2fs] %-4s %-9s %-16s %s",
		e.At.Seconds(), e.Actor, e.Category, e.Key, e.Value)
}

// SimLog keeps every event of a run in order. It backs the headless report,
// the clipboard dump and test assertions.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. Verbose logs also keep probe misses, rejected
// candidates and other per-cycle noise.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(at time.Duration, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{at, actor, category, key, value, numVal})
}

// AddVerbose is Add for entries only verbose logs keep.
func (sl *SimLog) AddVerbose(at time.Duration, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(at, actor, category, key, value, numVal)
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// LogQuery selects entries. Empty fields match anything; Contains is a
// substring test on the value.
type LogQuery struct {
	Actor    string
	Category string
	Key      string
	Contains string
}

func (q LogQuery) match(e SimLogEntry) bool {
	switch {
	case q.Actor != "" && e.Actor != q.Actor:
		return false
	case q.Category != "" && e.Category != q.Category:
		return false
	case q.Key != "" && e.Key != q.Key:
		return false
	case q.Contains != "" && !strings.Contains(e.Value, q.Contains):
		return false
	}
	return true
}

// Select returns the entries matching q in recording order.
func (sl *SimLog) Select(q LogQuery) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match q.
func (sl *SimLog) Count(q LogQuery) int {
	n := 0
	for _, e := range sl.entries {
		if q.match(e) {
			n++
		}
	}
	return n
}

// CountCategory counts entries by category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return sl.Count(LogQuery{Category: category, Key: key})
}

// HasEntry reports whether any entry matches category, key and a value
// substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	q := LogQuery{Category: category, Key: key, Contains: valueSubstr}
	for _, e := range sl.entries {
		if q.match(e) {
			return true
		}
	}
	return false
}

// WriteTo writes one formatted line per entry.
func (sl *SimLog) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range sl.entries {
		n, err := fmt.Fprintln(w, e.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Format returns the whole log, for t.Log and the clipboard report.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	sl.WriteTo(&sb)
	return sb.String()
}

// teeLog fans one event out to several sinks.
type teeLog []Diagnostics

func (t teeLog) Add(at time.Duration, actor, category, key, value string, numVal float64) {
	for _, d := range t {
		if d != nil {
			d.Add(at, actor, category, key, value, numVal)
		}
	}
}

func (t teeLog) AddVerbose(at time.Duration, actor, category, key, value string, numVal float64) {
	for _, d := range t {
		if d != nil {
			addVerbose(d, at, actor, category, key, value, numVal)
		}
	}
}

// verboseLog is implemented by sinks that separate per-tick noise.
type verboseLog interface {
	AddVerbose(at time.Duration, actor, category, key, value string, numVal float64)
}

// addVerbose records a low-value event only on sinks that ask for them.
func addVerbose(d Diagnostics, at time.Duration, actor, category, key, value string, numVal float64) {
	if v, ok := d.(verboseLog); ok {
		v.AddVerbose(at, actor, category, key, value, numVal)
	}
}

// discardLog drops everything.
type discardLog struct{}

func (discardLog) Add(time.Duration, string, string, string, string, float64) {}
