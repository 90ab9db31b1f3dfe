package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

func newTestSync(t *testing.T, failFor map[string]error) (SyncService, *mockActivityRepository, *mockCache, *mockSource) {
	t.Helper()

	sessions := newMockSessionRepository(
		models.Session{ID: "a", AthleteID: 1, AccessToken: "tok-a"},
		models.Session{ID: "b", AthleteID: 2, AccessToken: "tok-b"},
		models.Session{ID: "c", AthleteID: 3, AccessToken: "tok-c"},
	)
	source := &mockSource{byToken: map[string][]models.Activity{
		"tok-a": {run(1, 1000, 0, 300, 0, "2025-01-01T10:00:00Z")},
		"tok-b": {run(2, 1000, 0, 300, 0, "2025-01-01T10:00:00Z"), run(3, 1000, 0, 300, 0, "2025-01-02T10:00:00Z")},
		"tok-c": {},
	}}
	activities := newMockActivityRepository()
	c := newMockCache()

	svc := NewSyncService(
		&mockAuth{sessions: sessions, failFor: failFor},
		sessions, source, activities, c,
		SyncOptions{Year: 2025, Concurrency: 2},
	)
	return svc, activities, c, source
}

func TestSyncAll(t *testing.T) {
	svc, activities, c, _ := newTestSync(t, nil)

	report, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error: %v", err)
	}

	if report.Sessions != 3 || report.Succeeded != 3 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Activities != 3 {
		t.Errorf("Activities = %d, want 3", report.Activities)
	}
	if len(activities.stored[2]) != 2 {
		t.Errorf("athlete 2 stored %d activities, want 2", len(activities.stored[2]))
	}
	if c.deletes != 3 {
		t.Errorf("cache deletes = %d, want 3", c.deletes)
	}
}

func TestSyncAll_OneFailureDoesNotStopOthers(t *testing.T) {
	svc, activities, _, _ := newTestSync(t, map[string]error{"b": ErrReconnect})

	report, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error: %v", err)
	}

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want 2 ok 1 failed", report)
	}
	if _, ok := activities.stored[2]; ok {
		t.Error("failed athlete should not have stored activities")
	}
	if len(activities.stored[1]) != 1 {
		t.Errorf("athlete 1 stored %d, want 1", len(activities.stored[1]))
	}
}

func TestSyncAll_ListError(t *testing.T) {
	sessions := newMockSessionRepository()
	sessions.listErr = errors.New("db down")
	svc := NewSyncService(&mockAuth{sessions: sessions}, sessions, &mockSource{}, newMockActivityRepository(), nil, SyncOptions{Year: 2025})

	if _, err := svc.SyncAll(context.Background()); err == nil {
		t.Error("expected list error")
	}
}

func TestSyncSession_UsesYearWindow(t *testing.T) {
	svc, _, _, source := newTestSync(t, nil)

	n, err := svc.SyncSession(context.Background(), "b")
	if err != nil {
		t.Fatalf("SyncSession() error: %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	wantFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !source.lastWindow[0].Equal(wantFrom) || !source.lastWindow[1].Equal(wantFrom.AddDate(1, 0, 0)) {
		t.Errorf("window = %v", source.lastWindow)
	}
}

func TestNewSyncScheduler(t *testing.T) {
	svc, _, _, _ := newTestSync(t, nil)

	c, err := NewSyncScheduler(svc, "0 3 * * *", time.Minute, nil)
	if err != nil {
		t.Fatalf("NewSyncScheduler() error: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(c.Entries()))
	}

	if _, err := NewSyncScheduler(svc, "not a schedule", time.Minute, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}
}
