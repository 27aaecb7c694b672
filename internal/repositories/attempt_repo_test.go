package repositories

import (
	"sync"
	"testing"
	"time"

	"github.com/osanchez/portfolio-gateway/internal/models"
)

func TestMemoryAttemptLedger_GetMissing(t *testing.T) {
	ledger := NewMemoryAttemptLedger()

	_, ok := ledger.Get("1.2.3.4")
	if ok {
		t.Error("expected no record for unknown client")
	}
}

func TestMemoryAttemptLedger_SetGetDelete(t *testing.T) {
	ledger := NewMemoryAttemptLedger()
	now := time.Now()

	ledger.Set("1.2.3.4", models.AttemptRecord{Count: 2, LastAttempt: now})

	record, ok := ledger.Get("1.2.3.4")
	if !ok {
		t.Fatal("expected record after Set")
	}
	if record.Count != 2 || !record.LastAttempt.Equal(now) {
		t.Errorf("got %+v, want count=2 lastAttempt=%v", record, now)
	}

	ledger.Delete("1.2.3.4")
	if _, ok := ledger.Get("1.2.3.4"); ok {
		t.Error("expected record gone after Delete")
	}

	// Delete of a missing key is a no-op
	ledger.Delete("1.2.3.4")
}

func TestMemoryAttemptLedger_UpdateCreatesAndDeletes(t *testing.T) {
	ledger := NewMemoryAttemptLedger()
	now := time.Now()

	ledger.Update("1.2.3.4", func(record models.AttemptRecord, ok bool) (models.AttemptRecord, bool) {
		if ok {
			t.Error("expected no existing record")
		}
		return models.AttemptRecord{Count: 1, LastAttempt: now}, true
	})

	if record, ok := ledger.Get("1.2.3.4"); !ok || record.Count != 1 {
		t.Errorf("expected count=1 after create, got %+v ok=%v", record, ok)
	}

	ledger.Update("1.2.3.4", func(record models.AttemptRecord, ok bool) (models.AttemptRecord, bool) {
		return record, false
	})

	if _, ok := ledger.Get("1.2.3.4"); ok {
		t.Error("expected record deleted when fn returns keep=false")
	}
}

// Concurrent increments from the same client must all be counted; this is
// the invariant Update exists for.
func TestMemoryAttemptLedger_UpdateIsAtomic(t *testing.T) {
	ledger := NewMemoryAttemptLedger()
	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			ledger.Update("1.2.3.4", func(record models.AttemptRecord, ok bool) (models.AttemptRecord, bool) {
				return models.AttemptRecord{Count: record.Count + 1, LastAttempt: time.Now()}, true
			})
		}()
	}
	wg.Wait()

	record, ok := ledger.Get("1.2.3.4")
	if !ok || record.Count != goroutines {
		t.Errorf("expected count=%d after concurrent updates, got %+v ok=%v", goroutines, record, ok)
	}
}

func TestMemoryAttemptLedger_ClientsAreIndependent(t *testing.T) {
	ledger := NewMemoryAttemptLedger()
	now := time.Now()

	ledger.Set("1.1.1.1", models.AttemptRecord{Count: 5, LastAttempt: now})
	ledger.Set("2.2.2.2", models.AttemptRecord{Count: 1, LastAttempt: now})

	ledger.Delete("1.1.1.1")

	if record, ok := ledger.Get("2.2.2.2"); !ok || record.Count != 1 {
		t.Errorf("deleting one client must not affect another, got %+v ok=%v", record, ok)
	}
}
