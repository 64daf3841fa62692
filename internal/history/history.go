// Package history provides a bounded, linear undo/redo log of document snapshots.
package history

// Capacity is the maximum number of snapshots kept; the oldest are evicted first.
const Capacity = 20

// Snapshot is an immutable serialized copy of a document's full state.
// The log never inspects its contents.
type Snapshot string

// Log is a linear snapshot history with a cursor. Pushing after an undo
// abandons the redo branch. The zero value is not usable; call New.
type Log struct {
	entries    []Snapshot
	cursor     int
	suppressed bool
	capacity   int
}

// New creates an empty log with the default capacity.
func New() *Log {
	return NewWithCapacity(Capacity)
}

// NewWithCapacity creates an empty log holding at most capacity snapshots.
func NewWithCapacity(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{cursor: -1, capacity: capacity}
}

// Push records a snapshot as the newest entry. It is ignored while the log is
// suppressed.
func (l *Log) Push(s Snapshot) {
	if l.suppressed {
		return
	}
	if l.cursor < len(l.entries)-1 {
		l.entries = l.entries[:l.cursor+1]
	}
	l.entries = append(l.entries, s)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]Snapshot(nil), l.entries[over:]...)
	}
	l.cursor = len(l.entries) - 1
}

// Undo moves the cursor back one entry and returns that snapshot. At the
// oldest entry it returns false and changes nothing.
func (l *Log) Undo() (Snapshot, bool) {
	if !l.CanUndo() {
		return "", false
	}
	l.cursor--
	return l.entries[l.cursor], true
}

// Redo moves the cursor forward one entry and returns that snapshot. At the
// newest entry it returns false and changes nothing.
func (l *Log) Redo() (Snapshot, bool) {
	if !l.CanRedo() {
		return "", false
	}
	l.cursor++
	return l.entries[l.cursor], true
}

// CanUndo reports whether an older entry exists.
func (l *Log) CanUndo() bool {
	return l.cursor > 0
}

// CanRedo reports whether a newer entry exists.
func (l *Log) CanRedo() bool {
	return l.cursor < len(l.entries)-1
}

// WithSuppressed runs fn with pushes ignored. The log is unsuppressed again on
// every exit path, including an error or panic from fn.
func (l *Log) WithSuppressed(fn func() error) error {
	prev := l.suppressed
	l.suppressed = true
	defer func() { l.suppressed = prev }()
	return fn()
}

// Suppressed reports whether pushes are currently ignored.
func (l *Log) Suppressed() bool {
	return l.suppressed
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Cursor returns the index of the current entry, or -1 if the log is empty.
func (l *Log) Cursor() int {
	return l.cursor
}

// Current returns the snapshot at the cursor.
func (l *Log) Current() (Snapshot, bool) {
	if l.cursor < 0 {
		return "", false
	}
	return l.entries[l.cursor], true
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []Snapshot {
	return append([]Snapshot(nil), l.entries...)
}
