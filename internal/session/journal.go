package session

import "time"

// maxJournalEntries caps the analysis log; older entries are dropped first.
const maxJournalEntries = 200

// Entry is one line of the analysis log.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
}

// journal is a bounded, append-only analysis log.
type journal struct {
	entries []Entry
	now     func() time.Time
}

func (j *journal) add(actor, description string) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	j.entries = append(j.entries, Entry{Timestamp: now(), Actor: actor, Description: description})
	if over := len(j.entries) - maxJournalEntries; over > 0 {
		j.entries = append(j.entries[:0:0], j.entries[over:]...)
	}
}

func (j *journal) snapshot() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *journal) clear() {
	j.entries = nil
}
