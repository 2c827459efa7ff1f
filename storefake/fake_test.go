package storefake

import (
	"context"
	"testing"
	"time"

	"github.com/flightlens/querycache"
)

func TestFakeCountsOperations(t *testing.T) {
	fake := New()
	ctx := context.Background()

	fake.Set(ctx, "a", []byte("1"), time.Minute)
	fake.Get(ctx, "a")
	fake.Get(ctx, "a")
	fake.Get(ctx, "b")
	fake.Delete(ctx, "a")
	fake.Flush(ctx)

	fake.AssertCalled(t, OpSet, "a", 1)
	fake.AssertCalled(t, OpGet, "a", 2)
	fake.AssertCalled(t, OpGet, "b", 1)
	fake.AssertTotal(t, OpGet, 3)
	fake.AssertCalled(t, OpDelete, "a", 1)
	fake.AssertTotal(t, OpFlush, 1)
	fake.AssertNotCalled(t, OpSet, "b")

	fake.Reset()
	fake.AssertTotal(t, OpGet, 0)
}

func TestFakeDisconnectedMode(t *testing.T) {
	fake := New()
	ctx := context.Background()

	fake.Set(ctx, "k", []byte("v"), time.Minute)
	fake.SetDisconnected(true)

	if fake.Connected(ctx) {
		t.Fatalf("expected disconnected")
	}
	if _, ok := fake.Get(ctx, "k"); ok {
		t.Fatalf("expected reads to miss while disconnected")
	}
	if fake.Set(ctx, "k2", []byte("v2"), time.Minute) {
		t.Fatalf("expected writes to fail while disconnected")
	}
	if stats := fake.Stats(ctx); stats != (querycache.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if health := fake.Health(ctx); health.Connected || health.Err == "" {
		t.Fatalf("expected unhealthy report, got %+v", health)
	}

	// Operations are still counted while down.
	fake.AssertCalled(t, OpGet, "k", 1)
	fake.AssertCalled(t, OpSet, "k2", 1)

	fake.SetDisconnected(false)
	if body, ok := fake.Get(ctx, "k"); !ok || string(body) != "v" {
		t.Fatalf("expected data to survive reconnect, ok=%v body=%q", ok, string(body))
	}
}

func TestFakeObservesMemoizerTraffic(t *testing.T) {
	fake := New()
	memo := querycache.NewMemoizer(fake)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "result", nil
	}

	key := querycache.DeriveKey("flights_airport", querycache.Params{"airport_type": "ORIGIN"})
	for i := 0; i < 2; i++ {
		got, err := querycache.Execute(ctx, memo, "flights_airport", querycache.Params{"airport_type": "ORIGIN"}, time.Minute, compute)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if got != "result" {
			t.Fatalf("unexpected result %q", got)
		}
	}

	if calls != 1 {
		t.Fatalf("expected one computation, got %d", calls)
	}
	fake.AssertCalled(t, OpGet, key, 2)
	fake.AssertCalled(t, OpSet, key, 1)
}
