package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
)

// BenchmarkPostRetrieveLatency reports latency percentiles for object-level
// reads, which pay for the store lookup plus the visibility check.
func BenchmarkPostRetrieveLatency(b *testing.B) {
	pool, editor := setupPool(b, 100)
	users := services.NewUserService(pool, 16, time.Minute)
	content := services.NewContentService(pool, users)
	ctx := context.Background()

	metrics := NewMetrics()
	reader := policies.Actor{ID: editor.ID + 1000, Role: policies.RoleReader}

	i := 0
	for b.Loop() {
		i++
		start := time.Now()
		_, _ = content.Handle(ctx, services.Request{
			Actor:  reader,
			Action: policies.ActionRetrieve,
			Kind:   policies.KindPost,
			ID:     int64(i%100 + 1),
		})
		metrics.Record(time.Since(start))
	}
	metrics.RecordMemory()

	b.ReportMetric(float64(metrics.P50().Nanoseconds()), "ns_p50")
	b.ReportMetric(float64(metrics.P99().Nanoseconds()), "ns_p99")
	b.ReportMetric(float64(metrics.RSSBytes), "rss_bytes")
}

// BenchmarkActorResolution compares cached and uncached actor lookups.
func BenchmarkActorResolution(b *testing.B) {
	pool, editor := setupPool(b, 0)
	ctx := context.Background()

	for _, size := range []int{1, 1024} {
		b.Run(fmt.Sprintf("cache=%d", size), func(b *testing.B) {
			users := services.NewUserService(pool, size, time.Minute)
			for b.Loop() {
				if size == 1 {
					users.Invalidate(editor.ID)
				}
				if _, err := users.ResolveActor(ctx, editor.ID); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.Record(time.Duration(i) * time.Millisecond)
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"p50", m.P50(), 50 * time.Millisecond},
		{"p99", m.P99(), 99 * time.Millisecond},
		{"min", m.Min(), time.Millisecond},
		{"max", m.Max(), 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
