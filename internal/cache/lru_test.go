// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[int](3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found {
			t.Errorf("expected to find key %q", key)
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string](3, time.Minute)

	c.Add("a", "A")
	c.Add("b", "B")
	c.Add("c", "C")

	// 'a' becomes most recently used, so 'b' is the eviction victim
	c.Get("a")
	c.Add("d", "D")

	if _, found := c.Get("b"); found {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %q to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("a", 1)
	if _, found := c.Get("a"); !found {
		t.Fatal("expected to find 'a' before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, found := c.Get("a"); found {
		t.Error("expected 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on Get, Len() = %d", c.Len())
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Add("a", 1)
	c.Add("a", 2)

	if got, _ := c.Get("a"); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[int](5, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove() should report an existing key")
	}
	if c.Remove("a") {
		t.Error("Remove() should report a missing key")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, found := c.Get("b"); found {
		t.Error("expected 'b' to be cleared")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("a", 1)
	c.Add("b", 2)
	now = now.Add(2 * time.Minute)
	c.Add("c", 3)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Add("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 2, 1, 1", hits, misses, size)
	}
	if rate := c.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate() = %f, want ~66.67", rate)
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[int](0, 0)
	if c.capacity != 10000 {
		t.Errorf("capacity = %d, want 10000", c.capacity)
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", c.ttl)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	c := NewLRU[int](1000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(fmt.Sprintf("k%d", i%2000), i)
	}
}
