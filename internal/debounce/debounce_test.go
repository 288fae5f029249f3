package debounce

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	var got []int

	d := New(30*time.Millisecond, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	defer d.Close()

	// Burst of triggers inside the quiet window.
	d.Trigger(1)
	d.Trigger(2)
	d.Trigger(3)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(got))
	}
	if got[0] != 3 {
		t.Errorf("delivered payload = %d, want latest (3)", got[0])
	}
}

func TestDebouncer_TriggerRestartsWindow(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	d := New(50*time.Millisecond, func(int) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	defer d.Close()

	d.Trigger(1)
	time.Sleep(30 * time.Millisecond)
	d.Trigger(2) // restarts the window before the first fires

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	if fired != 0 {
		mu.Unlock()
		t.Fatal("fired before quiet window elapsed")
	}
	mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestDebouncer_CloseDropsPending(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	d := New(20*time.Millisecond, func(int) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	d.Trigger(1)
	d.Close()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("pending delivery ran after Close, fired = %d", fired)
	}
}

func TestDebouncer_TriggerAfterCloseIsNoop(t *testing.T) {
	d := New(10*time.Millisecond, func(int) {
		t.Error("delivery after Close")
	})
	d.Close()
	d.Trigger(1)
	time.Sleep(40 * time.Millisecond)

	if d.Pending() {
		t.Error("Pending() = true after Close")
	}
}
