package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLedgerStoreMirrorsPoints(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewLedgerStore(client)

	ledger := store.GetOrCreate("room-1")
	ledger.AddPoints("u1", 11)
	ledger.AddPoints("u1", 12.1)

	score, err := client.ZScore(context.Background(), "game:daily:room-1:points", "u1").Result()
	if err != nil {
		t.Fatalf("zscore: %v", err)
	}
	if score < 23.0 || score > 23.2 {
		t.Fatalf("expected mirrored total ~23.1, got %v", score)
	}
}

func TestLedgerStoreMirrorsUsedWords(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewLedgerStore(client)

	store.GetOrCreate("room-1").MarkWordUsed("Telescope")

	member, err := client.SIsMember(context.Background(), "game:daily:room-1:usedwords", "telescope").Result()
	if err != nil {
		t.Fatalf("sismember: %v", err)
	}
	if !member {
		t.Fatalf("expected lowercased word mirrored to redis")
	}
}

func TestLedgerStoreResetDropsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewLedgerStore(client)

	ledger := store.GetOrCreate("room-1")
	ledger.AddPoints("u1", 10)
	ledger.MarkWordUsed("telescope")

	ledger.Reset()

	if mr.Exists("game:daily:room-1:points") {
		t.Fatalf("expected points key dropped on reset")
	}
	if mr.Exists("game:daily:room-1:usedwords") {
		t.Fatalf("expected used-words key dropped on reset")
	}
	if len(ledger.UsedWords()) != 0 {
		t.Fatalf("expected local ledger cleared too")
	}
}

func TestLedgerStoreSameLedgerPerRoom(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewLedgerStore(client)

	if store.GetOrCreate("room-1") != store.GetOrCreate("room-1") {
		t.Fatalf("expected one ledger per room")
	}
	if len(store.Rooms()) != 1 {
		t.Fatalf("expected one room, got %v", store.Rooms())
	}
}
