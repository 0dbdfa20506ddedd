package scene

import (
	"fmt"
	"strings"
)

// JournalEntry is one recorded coordinator event.
type JournalEntry struct {
	Tick     int
	Scene    string
	Category string // scene, inbound, input, effect, identity, transport, alert
	Key      string
	Value    string
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] choose    inbound   Success         card=5 you=2 opp=1
func (e JournalEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-9s %-9s %-15s %s",
		e.Tick, e.Scene, e.Category, e.Key, e.Value)
}

// Journal records what the coordinator did, for tests, the headless report
// and the debug overlay. A positive capacity keeps only the newest entries.
type Journal struct {
	entries  []JournalEntry
	capacity int
}

// NewJournal creates a journal. capacity <= 0 means unbounded.
func NewJournal(capacity int) *Journal {
	return &Journal{capacity: capacity}
}

// Add records an entry.
func (j *Journal) Add(tick int, scene Kind, category, key, value string) {
	if j == nil {
		return
	}
	j.entries = append(j.entries, JournalEntry{
		Tick:     tick,
		Scene:    scene.String(),
		Category: category,
		Key:      key,
		Value:    value,
	})
	if j.capacity > 0 && len(j.entries) > j.capacity {
		j.entries = j.entries[len(j.entries)-j.capacity:]
	}
}

// Entries returns all retained entries, oldest first.
func (j *Journal) Entries() []JournalEntry {
	if j == nil {
		return nil
	}
	return j.entries
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	return len(j.entries)
}

// Filter returns entries matching category and key. Empty strings match
// anything.
func (j *Journal) Filter(category, key string) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match category and key.
func (j *Journal) CountCategory(category, key string) int {
	return len(j.Filter(category, key))
}

// LastOf returns the newest entry matching category and key.
func (j *Journal) LastOf(category, key string) (JournalEntry, bool) {
	entries := j.Filter(category, key)
	if len(entries) == 0 {
		return JournalEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry matches category, key and contains
// valueSubstr.
func (j *Journal) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range j.Filter(category, key) {
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Tail returns the newest n entries.
func (j *Journal) Tail(n int) []JournalEntry {
	entries := j.Entries()
	if n < len(entries) {
		return entries[len(entries)-n:]
	}
	return entries
}

// Format returns the whole journal, one entry per line.
func (j *Journal) Format() string {
	var sb strings.Builder
	for _, e := range j.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
