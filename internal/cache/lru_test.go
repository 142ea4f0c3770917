package cache

import (
	"testing"
	"time"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry must be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("b = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUGetRefreshesRecency(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")    // "a" becomes most recent
	c.Set("c", 3) // evicts "b"

	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently read entry must survive")
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry must not be returned")
	}
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("alice|month", 1)
	c.Set("alice|all", 2)
	c.Set("bob|month", 3)

	if n := c.DeletePrefix("alice|"); n != 2 {
		t.Fatalf("DeletePrefix = %d, want 2", n)
	}
	if _, ok := c.Get("bob|month"); !ok {
		t.Fatal("other user's entries must survive")
	}
}
