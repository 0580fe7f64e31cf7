package memory

import (
	"sync"

	"github.com/StarRy7c/Gamebot/internal/app"
)

// LedgerStore hands out in-memory daily ledgers, one per room, created lazily.
type LedgerStore struct {
	mu       sync.RWMutex
	observer app.LedgerObserver
	ledgers  map[string]*app.Ledger
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{ledgers: make(map[string]*app.Ledger)}
}

// NewLedgerStoreWithObserver attaches a mutation observer to every ledger the
// store creates; infrastructure layers use it to mirror state elsewhere.
func NewLedgerStoreWithObserver(observer app.LedgerObserver) *LedgerStore {
	return &LedgerStore{observer: observer, ledgers: make(map[string]*app.Ledger)}
}

func (s *LedgerStore) GetOrCreate(roomID string) *app.Ledger {
	s.mu.RLock()
	ledger, ok := s.ledgers[roomID]
	s.mu.RUnlock()
	if ok {
		return ledger
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ledger, ok := s.ledgers[roomID]; ok {
		return ledger
	}
	ledger = app.NewLedger(roomID, s.observer)
	s.ledgers[roomID] = ledger
	return ledger
}

func (s *LedgerStore) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]string, 0, len(s.ledgers))
	for roomID := range s.ledgers {
		rooms = append(rooms, roomID)
	}
	return rooms
}
