package ezstorage

import (
	"context"
	"fmt"
	"testing"
)

// Benchmark driver operations.

func BenchmarkMemory_Set(b *testing.B) {
	m := NewMemory()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Set(ctx, fmt.Sprintf("key:%d", i), "benchmark-value")
	}
}

func BenchmarkMemory_ConcurrentReads(b *testing.B) {
	m := NewMemory()
	ctx := context.Background()

	// Setup: populate with keys.
	for i := 0; i < 1000; i++ {
		_ = m.Set(ctx, fmt.Sprintf("key:%d", i), "benchmark-value")
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = m.Get(ctx, fmt.Sprintf("key:%d", i%1000))
			i++
		}
	})
}

// Benchmark facade operations per tier.

func BenchmarkStorage_SetSession(b *testing.B) {
	s := New()
	ctx := context.Background()
	value := map[string]any{"theme": "dark", "size": 12}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Set(ctx, fmt.Sprintf("key:%d", i), value)
	}
}

func BenchmarkStorage_SetDurable(b *testing.B) {
	s := New()
	ctx := context.Background()
	value := map[string]any{"theme": "dark", "size": 12}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Set(ctx, fmt.Sprintf("key:%d", i), value, ExpiresInDays(1))
	}
}

func BenchmarkStorage_GetEnvelope(b *testing.B) {
	s := New()
	ctx := context.Background()

	// Setup: populate with enveloped keys.
	for i := 0; i < 1000; i++ {
		_, _ = s.Set(ctx, fmt.Sprintf("key:%d", i), "benchmark-value", ExpiresInDays(1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get(ctx, fmt.Sprintf("key:%d", i%1000))
	}
}

func BenchmarkStorage_GetCookie(b *testing.B) {
	s := New(WithoutStorage(), WithCookies(NewMemoryCookieJar()))
	ctx := context.Background()
	_, _ = s.Set(ctx, "k", "benchmark-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get(ctx, "k")
	}
}
