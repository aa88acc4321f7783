package ledger

import "sync"

// Ledger is an append-only, ordered collection of Records for one
// session. Insertion order is capture order. There is no update or
// delete; a bad entry is corrected by appending another Record. Each
// session owns exactly one Ledger and ledgers are never shared between
// sessions.
type Ledger struct {
	mu      sync.Mutex
	records []Record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make([]Record, 0)}
}

// Append adds a record and returns its position in the ledger.
func (l *Ledger) Append(rec Record) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return len(l.records) - 1
}

// All returns the records in insertion order. The returned slice is a
// copy; the ledger's own records cannot be mutated through it.
func (l *Ledger) All() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Count returns the number of records.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// TotalPence returns the sum of record totals.
func (l *Ledger) TotalPence() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sum int64
	for _, rec := range l.records {
		sum += rec.TotalPence
	}
	return sum
}

// ByCategory returns the sum of record totals grouped by category.
// Keys are the categories actually present.
func (l *Ledger) ByCategory() map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int64)
	for _, rec := range l.records {
		out[rec.Category] += rec.TotalPence
	}
	return out
}
