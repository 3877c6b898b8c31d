package terminal

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EntryType is a display hint for a log entry; it has no behavioral effect
type EntryType string

const (
	TypeInfo    EntryType = "info"
	TypeError   EntryType = "error"
	TypeSuccess EntryType = "success"
	TypeCommand EntryType = "command"
	TypeProcess EntryType = "process"
)

// TimestampFormat is the wall-clock format shown next to each entry
const TimestampFormat = "15:04:05"

// Entry is one append-only record of the simulated terminal
type Entry struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Message   string    `json:"message"`
	Type      EntryType `json:"type"`
}

// Observer is notified after the log changes. Calls happen outside the
// log's lock, possibly from a timer goroutine.
type Observer interface {
	EntryAppended(Entry)
	LogCleared()
}

// Log is the append-only terminal log. It is safe for concurrent use.
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	observers []Observer
	now       func() time.Time
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Watch registers an observer
func (l *Log) Watch(o Observer) {
	l.mu.Lock()
	l.observers = append(l.observers, o)
	l.mu.Unlock()
}

// Append adds an entry and returns it
func (l *Log) Append(message string, typ EntryType) Entry {
	l.mu.Lock()
	entry := Entry{
		ID:        ulid.Make().String(),
		Timestamp: l.now().Format(TimestampFormat),
		Message:   message,
		Type:      typ,
	}
	l.entries = append(l.entries, entry)
	observers := l.observers
	l.mu.Unlock()

	for _, o := range observers {
		o.EntryAppended(entry)
	}
	return entry
}

// Clear removes every entry
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	observers := l.observers
	l.mu.Unlock()

	for _, o := range observers {
		o.LogCleared()
	}
}

// Entries returns a copy of the current entries
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
