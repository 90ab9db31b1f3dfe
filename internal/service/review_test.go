package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

func testSession() *models.Session {
	return &models.Session{ID: "s1", AthleteID: 7, AccessToken: "tok"}
}

func TestDemo(t *testing.T) {
	svc := NewReviewService(&mockSource{}, nil, nil, nil)

	review, err := svc.Demo()
	if err != nil {
		t.Fatalf("Demo() error: %v", err)
	}

	if review.Year != models.DemoYear {
		t.Errorf("Year = %d, want %d", review.Year, models.DemoYear)
	}
	s := review.Stats
	if s.ActivityCount != 5 {
		t.Errorf("ActivityCount = %d, want 5", s.ActivityCount)
	}
	if s.TotalDistance != 102000 {
		t.Errorf("TotalDistance = %v, want 102000", s.TotalDistance)
	}
	if s.PBs.LongestRun != 21000 {
		t.Errorf("LongestRun = %v, want 21000", s.PBs.LongestRun)
	}
	if s.PBs.BiggestClimb != 800 {
		t.Errorf("BiggestClimb = %v, want 800", s.PBs.BiggestClimb)
	}
	for i, month := range s.MonthlyData {
		want := 0
		switch i {
		case 0, 1, 2, 3, 11:
			want = 1
		}
		if month.Count != want {
			t.Errorf("month %d count = %d, want %d", i, month.Count, want)
		}
	}
	if review.Insights.Distance == "" || review.Insights.Kudos == "" {
		t.Errorf("insights not generated: %+v", review.Insights)
	}
}

func TestBuild_Malformed(t *testing.T) {
	svc := NewReviewService(&mockSource{}, nil, nil, nil)

	bad := run(9, 1000, 0, 300, 0, "")
	_, err := svc.Build([]models.Activity{bad}, 2025)

	var malformed *stats.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *stats.MalformedInputError", err)
	}
	if malformed.ActivityID != 9 || malformed.Field != "start_date" {
		t.Errorf("malformed = %+v", malformed)
	}
}

func TestForSession_FetchesStoresAndCaches(t *testing.T) {
	source := &mockSource{byToken: map[string][]models.Activity{
		"tok": {
			run(1, 10000, 100, 3000, 3, "2025-03-01T08:00:00Z"),
			run(2, 5000, 50, 1500, 1, "2025-03-08T08:00:00Z"),
		},
	}}
	repo := newMockActivityRepository()
	c := newMockCache()
	svc := NewReviewService(source, repo, c, time.UTC)

	review, err := svc.ForSession(context.Background(), testSession(), 2025)
	if err != nil {
		t.Fatalf("ForSession() error: %v", err)
	}

	if review.AthleteID != 7 || review.Year != 2025 {
		t.Errorf("review = athlete %d year %d", review.AthleteID, review.Year)
	}
	if review.Stats.ActivityCount != 2 {
		t.Errorf("ActivityCount = %d, want 2", review.Stats.ActivityCount)
	}
	if len(repo.stored[7]) != 2 {
		t.Errorf("stored %d activities, want 2", len(repo.stored[7]))
	}
	from := source.lastWindow[0]
	if !from.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window start = %v", from)
	}

	// second call is served from cache
	again, err := svc.ForSession(context.Background(), testSession(), 2025)
	if err != nil {
		t.Fatalf("ForSession() second call error: %v", err)
	}
	if again != review {
		t.Error("second call did not return the cached review")
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
}

func TestRefresh_BypassesCache(t *testing.T) {
	source := &mockSource{byToken: map[string][]models.Activity{
		"tok": {run(1, 10000, 100, 3000, 3, "2025-03-01T08:00:00Z")},
	}}
	c := newMockCache()
	svc := NewReviewService(source, newMockActivityRepository(), c, time.UTC)

	if _, err := svc.ForSession(context.Background(), testSession(), 2025); err != nil {
		t.Fatalf("ForSession() error: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), testSession(), 2025); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2", source.calls)
	}
	if c.deletes != 1 {
		t.Errorf("cache deletes = %d, want 1", c.deletes)
	}
}

func TestForSession_UnauthorizedMeansReconnect(t *testing.T) {
	source := &mockSource{err: &strava.APIError{StatusCode: 401, Message: "Authorization Error"}}
	svc := NewReviewService(source, nil, nil, nil)

	_, err := svc.ForSession(context.Background(), testSession(), 2025)
	if !errors.Is(err, ErrReconnect) {
		t.Errorf("err = %v, want ErrReconnect", err)
	}
}

func TestForSession_UpstreamErrorPassesThrough(t *testing.T) {
	source := &mockSource{err: &strava.APIError{StatusCode: 503, Message: "unavailable"}}
	svc := NewReviewService(source, nil, nil, nil)

	_, err := svc.ForSession(context.Background(), testSession(), 2025)
	var apiErr *strava.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 503 {
		t.Errorf("err = %v, want APIError 503", err)
	}
	if errors.Is(err, ErrReconnect) {
		t.Error("503 should not ask for reconnect")
	}
}

func TestOffline(t *testing.T) {
	repo := newMockActivityRepository()
	repo.stored[7] = []models.Activity{
		run(1, 10000, 100, 3000, 3, "2025-05-03T08:00:00Z"),
		run(2, 8000, 60, 2400, 0, "2025-05-04T08:00:00Z"),
	}
	svc := NewReviewService(&mockSource{}, repo, nil, time.UTC)

	review, err := svc.Offline(context.Background(), 7, 2025)
	if err != nil {
		t.Fatalf("Offline() error: %v", err)
	}
	if review.Stats.ActivityCount != 2 || review.AthleteID != 7 {
		t.Errorf("review = %+v", review)
	}
	if review.Stats.WeeklyRhythm.Personality != models.PersonalityWeekendWarrior {
		t.Errorf("Personality = %q, want Weekend Warrior", review.Stats.WeeklyRhythm.Personality)
	}
}

func TestOffline_NoStore(t *testing.T) {
	svc := NewReviewService(&mockSource{}, nil, nil, nil)
	if _, err := svc.Offline(context.Background(), 7, 2025); err == nil {
		t.Error("expected error without an activity store")
	}
}

func TestYearWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	from, to := YearWindow(2024, loc)
	if from.Year() != 2024 || from.Month() != time.January || from.Day() != 1 || from.Hour() != 0 {
		t.Errorf("from = %v", from)
	}
	if to.Year() != 2025 || !to.Equal(from.AddDate(1, 0, 0)) {
		t.Errorf("to = %v", to)
	}
}
