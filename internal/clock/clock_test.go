package clock

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	initialTime := time.Date(2026, 7, 18, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	t.Run("returns fixed time", func(t *testing.T) {
		if !clock.Now().Equal(initialTime) {
			t.Errorf("FakeClock.Now() = %v, want %v", clock.Now(), initialTime)
		}
	})

	t.Run("advance accumulates", func(t *testing.T) {
		clock.Set(initialTime)
		clock.Advance(1 * time.Hour)
		clock.Advance(30 * time.Minute)

		want := initialTime.Add(90 * time.Minute)
		if !clock.Now().Equal(want) {
			t.Errorf("After Advance, Now() = %v, want %v", clock.Now(), want)
		}
	})

	t.Run("set can move backwards", func(t *testing.T) {
		past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		clock.Set(past)
		if !clock.Now().Equal(past) {
			t.Errorf("After Set, Now() = %v, want %v", clock.Now(), past)
		}
	})
}

func TestIDSource_Next(t *testing.T) {
	start := time.Date(2026, 7, 18, 20, 0, 0, 0, time.UTC)

	t.Run("derives id from milliseconds", func(t *testing.T) {
		ids := NewIDSource(NewFakeClock(start))
		if got := ids.Next(); got != start.UnixMilli() {
			t.Errorf("Next() = %d, want %d", got, start.UnixMilli())
		}
	})

	t.Run("same millisecond yields increasing ids", func(t *testing.T) {
		ids := NewIDSource(NewFakeClock(start))
		first := ids.Next()
		second := ids.Next()
		third := ids.Next()
		if second != first+1 || third != first+2 {
			t.Errorf("ids = %d, %d, %d; want consecutive", first, second, third)
		}
	})

	t.Run("clock moving backwards never repeats", func(t *testing.T) {
		clk := NewFakeClock(start)
		ids := NewIDSource(clk)
		first := ids.Next()
		clk.Advance(-time.Hour)
		if got := ids.Next(); got <= first {
			t.Errorf("Next() = %d after clock rewind, want > %d", got, first)
		}
	})

	t.Run("later clock is used directly", func(t *testing.T) {
		clk := NewFakeClock(start)
		ids := NewIDSource(clk)
		_ = ids.Next()
		clk.Advance(time.Second)
		if got := ids.Next(); got != start.Add(time.Second).UnixMilli() {
			t.Errorf("Next() = %d, want %d", got, start.Add(time.Second).UnixMilli())
		}
	})
}

func TestIDSource_NextN(t *testing.T) {
	ids := NewIDSource(NewFakeClock(time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC)))
	got := ids.NextN(3)
	if len(got) != 3 {
		t.Fatalf("NextN(3) returned %d ids", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("ids not ascending: %v", got)
		}
	}
	if len(ids.NextN(0)) != 0 {
		t.Error("NextN(0) should return no ids")
	}
}

func TestIDSource_ConcurrentUnique(t *testing.T) {
	ids := NewIDSource(NewFakeClock(time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC)))

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := ids.Next()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %d", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
