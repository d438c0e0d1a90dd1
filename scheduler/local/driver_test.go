package local

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streamless/streamless/id"
	"github.com/streamless/streamless/scheduler"
)

func testRequest(notBefore time.Time) scheduler.Request {
	return scheduler.Request{
		ID:        id.NewRequestID(),
		Target:    "test",
		Function:  scheduler.FuncExecutePayment,
		Args:      []string{"bob", "gold"},
		NotBefore: notBefore,
		NotAfter:  notBefore.Add(time.Minute),
	}
}

func TestDeliverImmediatelyForPastWindow(t *testing.T) {
	delivered := make(chan scheduler.Request, 1)
	d := New(func(_ context.Context, req scheduler.Request) error {
		delivered <- req
		return nil
	})
	defer d.Close()

	req := testRequest(time.Now().Add(-time.Second))
	if err := d.Schedule(context.Background(), req); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	select {
	case got := <-delivered:
		if got.ID != req.ID {
			t.Errorf("delivered request %v, want %v", got.ID, req.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("past-window request was not delivered")
	}
}

func TestDeliverAfterNotBefore(t *testing.T) {
	delivered := make(chan time.Time, 1)
	d := New(func(_ context.Context, _ scheduler.Request) error {
		delivered <- time.Now()
		return nil
	})
	defer d.Close()

	notBefore := time.Now().Add(50 * time.Millisecond)
	if err := d.Schedule(context.Background(), testRequest(notBefore)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	select {
	case at := <-delivered:
		if at.Before(notBefore) {
			t.Errorf("delivered at %v, before NotBefore %v", at, notBefore)
		}
	case <-time.After(time.Second):
		t.Fatal("request was not delivered")
	}
}

func TestDeliveryContextCarriesDeadline(t *testing.T) {
	deadlines := make(chan time.Time, 1)
	d := New(func(ctx context.Context, _ scheduler.Request) error {
		dl, ok := ctx.Deadline()
		if !ok {
			t.Error("delivery context has no deadline")
		}
		deadlines <- dl
		return nil
	})
	defer d.Close()

	req := testRequest(time.Now().Add(-time.Second))
	if err := d.Schedule(context.Background(), req); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	select {
	case dl := <-deadlines:
		if !dl.Equal(req.NotAfter) {
			t.Errorf("deadline %v, want NotAfter %v", dl, req.NotAfter)
		}
	case <-time.After(time.Second):
		t.Fatal("request was not delivered")
	}
}

func TestCloseStopsArmedTimers(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	d := New(func(_ context.Context, _ scheduler.Request) error {
		mu.Lock()
		fired++
		mu.Unlock()
		return nil
	})

	if err := d.Schedule(context.Background(), testRequest(time.Now().Add(50*time.Millisecond))); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	d.Close()

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("closed driver delivered %d requests, want 0", fired)
	}
}

func TestScheduleAfterClose(t *testing.T) {
	d := New(func(_ context.Context, _ scheduler.Request) error { return nil })
	d.Close()

	err := d.Schedule(context.Background(), testRequest(time.Now()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Schedule after Close = %v, want context.Canceled", err)
	}
}
