package repositories

import (
	"sync"

	"github.com/osanchez/portfolio-gateway/internal/models"
)

// AttemptLedger is the storage boundary for per-client attempt history.
// The in-memory implementation serves single-instance deployments; a
// shared store (e.g. a TTL-backed cache) can replace it behind the same
// interface for multi-instance setups.
type AttemptLedger interface {
	Get(clientID string) (models.AttemptRecord, bool)
	Set(clientID string, record models.AttemptRecord)
	Delete(clientID string)
	// Update applies fn to the client's current record under the store
	// lock; ok reports whether a record exists. Returning keep=false
	// removes the entry. Gates route their count transitions through
	// Update so read-modify-write stays atomic under concurrent requests
	// from the same client.
	Update(clientID string, fn func(record models.AttemptRecord, ok bool) (next models.AttemptRecord, keep bool))
}

// MemoryAttemptLedger keeps attempt records in a process-wide map.
// State starts empty, is discarded on restart, and has no expiry sweep;
// stale entries are only inspected lazily on the next request from the
// same client. Best-effort abuse mitigation, not a durability guarantee.
type MemoryAttemptLedger struct {
	mu      sync.Mutex
	records map[string]models.AttemptRecord
}

// NewMemoryAttemptLedger creates an empty in-memory ledger
func NewMemoryAttemptLedger() *MemoryAttemptLedger {
	return &MemoryAttemptLedger{
		records: make(map[string]models.AttemptRecord),
	}
}

func (l *MemoryAttemptLedger) Get(clientID string) (models.AttemptRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[clientID]
	return record, ok
}

func (l *MemoryAttemptLedger) Set(clientID string, record models.AttemptRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[clientID] = record
}

func (l *MemoryAttemptLedger) Delete(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, clientID)
}

func (l *MemoryAttemptLedger) Update(clientID string, fn func(models.AttemptRecord, bool) (models.AttemptRecord, bool)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[clientID]
	next, keep := fn(record, ok)
	if !keep {
		delete(l.records, clientID)
		return
	}
	l.records[clientID] = next
}
