package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/StarRy7c/Gamebot/internal/app"
)

// LedgerStore is a Redis-aware implementation of app.LedgerStore.
// Notes:
//   - The in-memory ledger stays authoritative; Redis receives a best-effort
//     mirror of daily points (a sorted set per room) and used words (a set),
//     useful for dashboards and for eyeballing state across restarts.
//   - Mirror failures are ignored: ledger mutation has already committed and
//     must not be rolled back by an infrastructure hiccup.
type LedgerStore struct {
	client *redis.Client

	mu      sync.RWMutex
	ledgers map[string]*app.Ledger
}

func NewLedgerStore(client *redis.Client) *LedgerStore {
	return &LedgerStore{
		client:  client,
		ledgers: make(map[string]*app.Ledger),
	}
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
	ledger = app.NewLedger(roomID, s)
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

// PointsChanged mirrors a user's daily total into the room's sorted set.
func (s *LedgerStore) PointsChanged(roomID, userID string, total float64) {
	_ = s.client.ZAdd(context.Background(), s.pointsKey(roomID), redis.Z{
		Score:  total,
		Member: userID,
	}).Err()
}

// WordUsed mirrors a drawn word into the room's used-word set.
func (s *LedgerStore) WordUsed(roomID, word string) {
	_ = s.client.SAdd(context.Background(), s.usedWordsKey(roomID), word).Err()
}

// LedgerReset drops the room's mirrored keys at the daily boundary.
func (s *LedgerStore) LedgerReset(roomID string) {
	_ = s.client.Del(context.Background(), s.pointsKey(roomID), s.usedWordsKey(roomID)).Err()
}

func (s *LedgerStore) pointsKey(roomID string) string {
	return "game:daily:" + roomID + ":points"
}

func (s *LedgerStore) usedWordsKey(roomID string) string {
	return "game:daily:" + roomID + ":usedwords"
}
