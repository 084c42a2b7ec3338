package game

import (
	"fmt"
	"strings"
)

// DecisionLogEntry is one recorded event in the gesture pipeline.
type DecisionLogEntry struct {
	Tick     int
	Actor    string  // "sm" (state machine), "mode", "emit", "snap", or "--"
	Category string  // tier, intent, target, mode, dispatch, possession, snap, timer
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] sm   tier      enter_target     pass
func (e DecisionLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-10s %-18s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// DecisionLog collects structured events from the gesture pipeline. It is
// unbounded and machine-readable, used by the headless driver and tests.
type DecisionLog struct {
	entries []DecisionLogEntry
	verbose bool
}

// NewDecisionLog creates a DecisionLog. If verbose is true, per-tick selector
// and timer entries are also recorded.
func NewDecisionLog(verbose bool) *DecisionLog {
	return &DecisionLog{verbose: verbose}
}

// Add records a new entry.
func (dl *DecisionLog) Add(tick int, actor, category, key, value string, numVal float64) {
	dl.entries = append(dl.entries, DecisionLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (dl *DecisionLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !dl.verbose {
		return
	}
	dl.Add(tick, actor, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (dl *DecisionLog) Entries() []DecisionLogEntry {
	return dl.entries
}

// Filter returns entries matching the category, or all for "".
func (dl *DecisionLog) Filter(category string) []DecisionLogEntry {
	if category == "" {
		return dl.entries
	}
	out := make([]DecisionLogEntry, 0, len(dl.entries))
	for _, e := range dl.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries matching category and key; "" matches
// any key.
func (dl *DecisionLog) Count(category, key string) int {
	n := 0
	for _, e := range dl.entries {
		if e.Category == category && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

// String renders the whole log, one line per entry.
func (dl *DecisionLog) String() string {
	var b strings.Builder
	for _, e := range dl.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
