package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	spec := map[string]any{"kind": "stack", "fields": []string{"Layers", "a"}}
	fk1 := k.FigureKey("stack", spec, FigureKeyOpts{Theme: "light"})
	fk2 := k.FigureKey("stack", spec, FigureKeyOpts{Theme: "dark"})
	if fk1 == fk2 {
		t.Error("Different FigureKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(fk1, "figure:") || len(fk1) != len("figure:")+64 {
		t.Errorf("FigureKey unexpected: %s", fk1)
	}
	if fk1 != k.FigureKey("stack", spec, FigureKeyOpts{Theme: "light"}) {
		t.Error("FigureKey should be deterministic")
	}
	if k.FigureKey("venn", spec, FigureKeyOpts{Theme: "light"}) == fk1 {
		t.Error("Different kinds should produce different keys")
	}

	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{Slug: "post", Mode: "inline"})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Slug: "post", Mode: "link"})
	if dk1 == dk2 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}
}

func TestFigureKeyNonFinite(t *testing.T) {
	type entry struct {
		Label string
		Value float64
	}
	k := NewDefaultKeyer()
	nan := k.FigureKey("bar", []entry{{"x", math.NaN()}}, FigureKeyOpts{})
	inf := k.FigureKey("bar", []entry{{"x", math.Inf(1)}}, FigureKeyOpts{})
	other := k.FigureKey("bar", []entry{{"y", math.NaN()}}, FigureKeyOpts{})

	if nan == inf || nan == other {
		t.Errorf("non-finite specs should get distinct keys: %s %s %s", nan, inf, other)
	}
	if nan != k.FigureKey("bar", []entry{{"x", math.NaN()}}, FigureKeyOpts{}) {
		t.Error("FigureKey should be deterministic for non-finite values")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "blog:eng:")

	key := scoped.FigureKey("bar", nil, FigureKeyOpts{})
	if key != "blog:eng:"+inner.FigureKey("bar", nil, FigureKeyOpts{}) {
		t.Errorf("ScopedKeyer FigureKey unexpected: %s", key)
	}

	docKey := scoped.DocumentKey("abc", DocumentKeyOpts{})
	if !strings.HasPrefix(docKey, "blog:eng:document:") {
		t.Errorf("ScopedKeyer DocumentKey should be prefixed: %s", docKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.FigureKey("pie", nil, FigureKeyOpts{})
	if !strings.HasPrefix(key, "prefix:figure:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "figure:a", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "figure:a")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "figure:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "figure:a"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "figure:a"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("{not json"), 0o644)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a silent miss: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
}

func TestRedisCachePrefix(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "figurine:")
	defer c.Close()
	if got := c.prefixKey("figure:abc"); got != "figurine:cache:figure:abc" {
		t.Errorf("prefixKey() = %q", got)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.DialTimeout = 200 * time.Millisecond
	_, err := NewRedisCache(context.Background(), cfg, WithRedisAddress("127.0.0.1:1"))
	if !errors.Is(err, ErrConnection) {
		t.Errorf("NewRedisCache() error = %v, want ErrConnection", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = time.Second }()
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
