package idempotency

import (
	"errors"
	"testing"
	"time"
)

func TestCreateIfNotExists_Get_MarkDone_MarkFailed(t *testing.T) {
	s := NewStore(48 * time.Hour)
	key := "test-key-1"

	created, _ := s.CreateIfNotExists(key, "fp")
	if !created {
		t.Fatalf("expected created=true")
	}

	// second create should return created=false (exists)
	created2, existing := s.CreateIfNotExists(key, "fp")
	if created2 {
		t.Fatalf("expected created=false on duplicate create")
	}
	if existing == nil || existing.Status != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS record, got %+v", existing)
	}

	if err := s.MarkDone(key, 201, []byte(`{"ok":true}`), "application/json"); err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	rec := s.Get(key)
	if rec == nil || rec.Status != StatusDone || rec.ResponseStatus != 201 || string(rec.ResponseBody) != `{"ok":true}` {
		t.Fatalf("unexpected record after MarkDone: %+v", rec)
	}

	s.MarkFailed(key)
	if s.Get(key) != nil {
		t.Fatal("expected record removed after MarkFailed")
	}
	if err := s.MarkDone(key, 201, nil, ""); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestRecordsExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(time.Hour)
	s.nowFunc = func() time.Time { return now }

	s.CreateIfNotExists("k", "fp")
	now = now.Add(59 * time.Minute)
	if s.Get("k") == nil {
		t.Fatal("record expired early")
	}
	now = now.Add(time.Minute)
	if s.Get("k") != nil {
		t.Fatal("expected record to expire after ttl")
	}
	if created, _ := s.CreateIfNotExists("k", "fp"); !created {
		t.Fatal("expected expired key to be reusable")
	}
}
