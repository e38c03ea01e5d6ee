package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

func TestCatalogStore_UpdateAndSnapshotClone(t *testing.T) {
	var s CatalogStore

	before := time.Now()
	s.Update([]catalog.Product{{ID: 1}, {ID: 2}}, []catalog.Category{"electronics"}, nil)

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Items) != 2 || snap.Items[0].ID != 1 {
		t.Fatalf("snapshot = %#v, want 2 items and HasData", snap)
	}
	if len(snap.Categories) != 1 || snap.Categories[0] != "electronics" {
		t.Fatalf("categories = %v, want [electronics]", snap.Categories)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Items[0].ID = 999
	if s.Snapshot().Items[0].ID != 1 {
		t.Fatalf("Snapshot should clone items")
	}
}

func TestCatalogStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s CatalogStore
	s.Update([]catalog.Product{{ID: 1}}, nil, nil)

	s.Update(nil, nil, errors.New("boom"))
	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != 1 || !snap.HasData {
		t.Fatalf("items changed on error: %#v", snap.Items)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
}

func TestCatalogStore_ConsecutiveFailures(t *testing.T) {
	var s CatalogStore

	if s.Snapshot().IsStale() {
		t.Fatal("IsStale() = true with 0 failures")
	}
	s.Update(nil, nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsStale() {
		t.Fatalf("after 1 failure: failures=%d stale=%v", snap.ConsecutiveFailures, snap.IsStale())
	}
	s.Update(nil, nil, errors.New("fail 2"))
	if snap := s.Snapshot(); !snap.IsStale() {
		t.Fatal("IsStale() = false with 2 failures")
	}
	s.Update([]catalog.Product{{ID: 1}}, nil, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("success should reset failures, got %d", snap.ConsecutiveFailures)
	}
}
