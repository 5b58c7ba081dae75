package schemacache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/breeze-go/breeze/normalize"
)

var groups = []normalize.FieldGroup{{Fields: []normalize.FieldDescriptor{{FieldID: "1", FieldType: "email"}}}}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestCache_Expiry(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c, err := New(10, time.Minute, WithClock(clk.now))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	c.Set(ProfileKey, groups)
	if got, ok := c.Get(ProfileKey); !ok || len(got) != 1 {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get(ProfileKey); ok {
		t.Fatalf("expired entry returned")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed")
	}
}

func TestCache_ZeroTTLDisabled(t *testing.T) {
	c, err := New(0, 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("zero TTL cache reports enabled")
	}

	calls := 0
	load := func(context.Context) ([]normalize.FieldGroup, error) {
		calls++
		return groups, nil
	}
	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad(context.Background(), ProfileKey, load); err != nil {
			t.Fatalf("GetOrLoad() failed: %v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("loader called %d times, want 3", calls)
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	c, err := New(10, time.Hour)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	calls := 0
	load := func(context.Context) ([]normalize.FieldGroup, error) {
		calls++
		return groups, nil
	}
	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad(context.Background(), FormKey(7), load); err != nil {
			t.Fatalf("GetOrLoad() failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	_, err = c.GetOrLoad(context.Background(), FormKey(8), func(context.Context) ([]normalize.FieldGroup, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := c.Get(FormKey(8)); ok {
		t.Fatalf("failed load was cached")
	}

	c.Invalidate(FormKey(7))
	if _, ok := c.Get(FormKey(7)); ok {
		t.Fatalf("invalidated entry returned")
	}
}

func TestFormKey(t *testing.T) {
	if got := FormKey(42); got != "form:42" {
		t.Fatalf("FormKey(42) = %q", got)
	}
}
