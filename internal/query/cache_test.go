package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetConcurrentCallersShareOneFetch(t *testing.T) {
	c := New()
	key := NewKey(OpCategories, "")

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "categories", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]Entry, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := c.Get(context.Background(), key, fetch)
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = snap
		}(i)
	}

	// Give every goroutine time to reach the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("fetch calls = %d, want 1", n)
	}
	for i, snap := range results {
		if snap.Data != "categories" {
			t.Fatalf("caller %d data = %v, want categories", i, snap.Data)
		}
	}
}

func TestSequentialGetsRefetch(t *testing.T) {
	c := New()
	key := NewKey(OpExpenses, "tf=current-month")

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	for want := 1; want <= 3; want++ {
		snap, err := c.Get(context.Background(), key, fetch)
		if err != nil {
			t.Fatalf("Get %d: %v", want, err)
		}
		if snap.Data != want {
			t.Fatalf("Get %d data = %v, want %d", want, snap.Data, want)
		}
		if !snap.Stale {
			t.Fatalf("Get %d: entry not stale after success", want)
		}
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("fetch calls = %d, want 3", n)
	}
}

func TestSlowStaleFetchNeverOvertakesNewerResult(t *testing.T) {
	c := New()
	key := NewKey(OpSummary, "tf=current-month")

	// First fetch starts, then the key is invalidated so a second fetch
	// begins; the second completes first and the first must be discarded.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		snap, _ := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
			close(firstStarted)
			<-releaseFirst
			return "old", nil
		})
		if snap.Data != "new" {
			t.Errorf("first caller data = %v, want new (newest applied generation)", snap.Data)
		}
	}()

	<-firstStarted
	c.Invalidate(OpSummary)

	snap, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "new", nil
	})
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if snap.Data != "new" {
		t.Fatalf("second caller data = %v, want new", snap.Data)
	}
	gen := snap.Generation

	close(releaseFirst)
	wg.Wait()

	final, ok := c.Peek(key)
	if !ok {
		t.Fatal("Peek: entry missing")
	}
	if final.Data != "new" {
		t.Fatalf("final data = %v, want new (old completion must be discarded)", final.Data)
	}
	if final.Generation < gen {
		t.Fatalf("final generation = %d, want >= %d", final.Generation, gen)
	}
}

func TestFailedRefetchKeepsPriorData(t *testing.T) {
	c := New()
	key := NewKey(OpExpenses, "tf=last-month")

	if _, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "good", nil
	}); err != nil {
		t.Fatalf("seed Get: %v", err)
	}

	fetchErr := errors.New("boom")
	snap, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Get err = %v, want %v", err, fetchErr)
	}
	if snap.Data != "good" {
		t.Fatalf("data = %v, want prior value good", snap.Data)
	}
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %v, want StatusSuccess (stale data still shown)", snap.Status)
	}
	if snap.Err == nil {
		t.Fatal("snapshot error not set after failed refetch")
	}
}

func TestFirstFetchFailureIsErrorState(t *testing.T) {
	c := New()
	key := NewKey(OpProfile, "")

	fetchErr := errors.New("offline")
	snap, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Get err = %v, want %v", err, fetchErr)
	}
	if snap.Data != nil {
		t.Fatalf("data = %v, want nil", snap.Data)
	}
	if snap.Status != StatusError {
		t.Fatalf("status = %v, want StatusError", snap.Status)
	}
}

func TestInvalidateMatchesOperationOnly(t *testing.T) {
	c := New()
	expKey := NewKey(OpExpenses, "tf=current-month")
	catKey := NewKey(OpCategories, "")

	seed := func(key Key, v any) {
		t.Helper()
		if _, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
			return v, nil
		}); err != nil {
			t.Fatalf("seed %v: %v", key, err)
		}
	}
	seed(expKey, "expenses")
	seed(catKey, "categories")

	c.Invalidate(OpExpenses, OpSummary)

	exp, _ := c.Peek(expKey)
	if !exp.Stale {
		t.Fatal("expenses entry not stale after Invalidate")
	}
	cat, _ := c.Peek(catKey)
	if cat.Data != "categories" {
		t.Fatalf("categories data = %v, want untouched", cat.Data)
	}
}

func TestMutateRunsOnceAndInvalidatesOnSuccess(t *testing.T) {
	c := New()
	key := NewKey(OpExpenses, "tf=current-month")
	if _, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "before", nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var calls int
	mutErr := errors.New("server rejected")
	_, err := c.Mutate(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		return nil, mutErr
	}, OpExpenses)
	if !errors.Is(err, mutErr) {
		t.Fatalf("Mutate err = %v, want %v", err, mutErr)
	}
	if calls != 1 {
		t.Fatalf("mutation calls = %d, want exactly 1 (never retried)", calls)
	}

	result, err := c.Mutate(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		return "created", nil
	}, OpExpenses, OpSummary)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if result != "created" {
		t.Fatalf("Mutate result = %v, want created", result)
	}
	snap, _ := c.Peek(key)
	if !snap.Stale {
		t.Fatal("expenses entry not stale after successful mutation")
	}
}

func TestPeekUnknownKey(t *testing.T) {
	c := New()
	if _, ok := c.Peek(NewKey(OpSummary, "tf=this-year")); ok {
		t.Fatal("Peek reported an entry for a key never read")
	}
}

func TestFetchTypedReturnsStaleValueWithError(t *testing.T) {
	c := New()
	key := NewKey(OpCategories, "")

	if _, err := Fetch(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"food"}, nil
	}); err != nil {
		t.Fatalf("seed Fetch: %v", err)
	}

	fetchErr := errors.New("timeout")
	got, err := Fetch(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Fetch err = %v, want %v", err, fetchErr)
	}
	if len(got) != 1 || got[0] != "food" {
		t.Fatalf("Fetch stale value = %v, want [food]", got)
	}
}

func TestKeysCompareStructurally(t *testing.T) {
	a := NewKey(OpExpenses, "tf=current-month")
	b := NewKey(OpExpenses, "tf=current-month")
	if a != b {
		t.Fatal("equal keys compare unequal")
	}
	if NewKey(OpExpenses, "") == NewKey(OpSummary, "") {
		t.Fatal("different operations compare equal")
	}
}
