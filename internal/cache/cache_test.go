package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("analysis", []byte("borrower:\n  monthlyNetIncome: 4000\n"))
	b := Key("analysis", []byte("borrower:\n  monthlyNetIncome: 4000\n"))
	c := Key("analysis", []byte("borrower:\n  monthlyNetIncome: 4100\n"))

	if a != b {
		t.Errorf("expected identical payloads to share a key, got %s and %s", a, b)
	}
	if a == c {
		t.Errorf("expected different payloads to differ, both %s", a)
	}
	if a[:len("analysis:")] != "analysis:" {
		t.Errorf("expected namespace prefix, got %s", a)
	}
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Nop cache should never hit")
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 0)

	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	value := []byte("payload")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != "payload" {
		t.Errorf("expected stored copy %q, got %q", "payload", got)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", []byte("v"))

	now = now.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("expected entry to be alive before TTL")
	}

	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire at TTL")
	}
	if m.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, have %d", m.Len())
	}
}

func TestMemoryWithoutTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 0)
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", []byte("v"))
	now = now.Add(24 * 365 * time.Hour)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Error("expected entry without TTL to persist")
	}
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 2)

	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))
	_ = m.Set(ctx, "c", []byte("3"))

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, have %d", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	for _, key := range []string{"b", "c"} {
		if _, ok, _ := m.Get(ctx, key); !ok {
			t.Errorf("expected %s to be kept", key)
		}
	}

	// Overwriting a stored key does not evict anything.
	_ = m.Set(ctx, "b", []byte("4"))
	if _, ok, _ := m.Get(ctx, "c"); !ok || m.Len() != 2 {
		t.Errorf("expected overwrite to keep c, have %d entries", m.Len())
	}
}

func TestMemorySetDropsExpiredWhenFull(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 3)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))
	now = now.Add(30 * time.Second)
	_ = m.Set(ctx, "c", []byte("3"))

	now = now.Add(31 * time.Second)
	_ = m.Set(ctx, "d", []byte("4"))

	if m.Len() != 2 {
		t.Fatalf("expected expired entries to be dropped, have %d", m.Len())
	}
	for _, key := range []string{"c", "d"} {
		if _, ok, _ := m.Get(ctx, key); !ok {
			t.Errorf("expected %s to be kept", key)
		}
	}
}

func TestMemoryBoundedUnderDistinctKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour, 10)

	for i := 0; i < 500; i++ {
		_ = m.Set(ctx, Key("analysis", []byte{byte(i), byte(i >> 8)}), []byte("v"))
	}
	if m.Len() != 10 {
		t.Errorf("expected cache capped at 10 entries, have %d", m.Len())
	}
}

func TestMemoryExpiredGetKeepsRefreshedEntry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return now }
	_ = m.Set(ctx, "k", []byte("old"))

	// The read observes the stale entry, then a Set refreshes it before the
	// expired entry is removed.
	now = now.Add(2 * time.Minute)
	calls := 0
	m.now = func() time.Time {
		calls++
		if calls == 1 {
			m.data["k"] = memoryEntry{value: []byte("new"), expires: now.Add(time.Minute)}
		}
		return now
	}

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected the stale read to miss")
	}
	m.now = func() time.Time { return now }
	got, ok, _ := m.Get(ctx, "k")
	if !ok || string(got) != "new" {
		t.Errorf("expected refreshed entry to survive, got %q ok=%v", got, ok)
	}
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewRedis(RedisConfig{Address: addr}, time.Minute)
	defer func() { _ = r.Close() }()

	if err := r.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	key := Key("test", []byte(t.Name()))
	if err := r.Set(ctx, key, []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := r.Get(ctx, key)
	if err != nil || !ok || string(got) != "value" {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}

	if _, ok, err := r.Get(ctx, Key("test", []byte("missing"))); ok || err != nil {
		t.Errorf("expected miss, got ok=%v err=%v", ok, err)
	}
}
