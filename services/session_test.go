package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitness-tracker-system/models"
)

func newTestSessionService(t *testing.T) (*SessionService, *Synchronizer) {
	t.Helper()
	sync := newTestSync(t)
	svc := NewSessionService(sync, NopNotifier{})
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc, sync
}

func (s *SessionService) at(t time.Time) { s.now = func() time.Time { return t } }

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestSessionService(t)
	_, err := svc.Login(context.Background(), "stranger")
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("got %v, want NotFoundError", err)
	}
}

func TestLogin_ConsumesSnoopFlag(t *testing.T) {
	svc, sync := newTestSessionService(t)
	ctx := context.Background()
	if _, err := sync.Mutate(ctx, "Dardna", func(u *models.UserRecord) error {
		u.Snooped = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Login(ctx, "Dardna")
	if err != nil {
		t.Fatal(err)
	}
	if !first.WasSnooped {
		t.Error("first login did not report the snoop")
	}
	if first.User.Snooped {
		t.Error("snoop flag not cleared by login")
	}

	second, err := svc.Login(ctx, "Dardna")
	if err != nil {
		t.Fatal(err)
	}
	if second.WasSnooped {
		t.Error("snoop reported twice")
	}
}

func TestLogin_FreshUserXPToNext(t *testing.T) {
	svc, _ := newTestSessionService(t)
	result, err := svc.Login(context.Background(), "Nikko")
	if err != nil {
		t.Fatal(err)
	}
	if result.XPToNext != 10 {
		t.Errorf("XP to next for a fresh user = %d, want 10", result.XPToNext)
	}
}

func TestAddActivity_RejectsBadInput(t *testing.T) {
	svc, _ := newTestSessionService(t)
	ctx := context.Background()

	var validation *models.ValidationError
	bad := lift(50, 10, 3)
	bad.Mood = "euphoric"
	if _, err := svc.AddActivity(ctx, "Helgrim", bad); !errors.As(err, &validation) {
		t.Errorf("unknown mood: got %v, want ValidationError", err)
	}
	if _, err := svc.AddActivity(ctx, "Helgrim", lift(300, 10, 3)); !errors.As(err, &validation) {
		t.Errorf("over the ceiling: got %v, want ValidationError", err)
	}
	if pending := svc.PendingActivities("Helgrim"); len(pending) != 0 {
		t.Errorf("rejected activities landed in the session: %d", len(pending))
	}
}

func TestAddActivity_ScoresAndParks(t *testing.T) {
	svc, _ := newTestSessionService(t)
	scored, err := svc.AddActivity(context.Background(), "Helgrim", lift(50, 10, 3))
	if err != nil {
		t.Fatal(err)
	}
	if scored.XP != 15 {
		t.Errorf("scored XP = %d, want 15", scored.XP)
	}
	if scored.Comment == "" {
		t.Error("no caption assigned")
	}
	if pending := svc.PendingActivities("Helgrim"); len(pending) != 1 {
		t.Fatalf("pending = %d activities, want 1", len(pending))
	}
}

func TestCompleteSession_Empty(t *testing.T) {
	svc, _ := newTestSessionService(t)
	_, err := svc.CompleteSession(context.Background(), "Helgrim")
	var validation *models.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestCompleteSession_FullFlow(t *testing.T) {
	svc, sync := newTestSessionService(t)
	ctx := context.Background()

	if _, err := svc.AddActivity(ctx, "Kennyball", lift(50, 10, 3)); err != nil {
		t.Fatal(err)
	}
	result, err := svc.CompleteSession(ctx, "Kennyball")
	if err != nil {
		t.Fatal(err)
	}

	if result.Entry.BaseXP != 15 || result.Entry.TotalXP != 15 {
		t.Errorf("entry XP = %d/%d (total/base), want 15/15", result.Entry.TotalXP, result.Entry.BaseXP)
	}
	if !result.LeveledUp || result.NewLevel != 1 {
		t.Errorf("leveledUp=%v newLevel=%d, want level up to 1", result.LeveledUp, result.NewLevel)
	}
	if !hasID(result.Unlocked, "first_workout") {
		t.Error("first_workout not unlocked")
	}
	if result.StreakDays != 1 {
		t.Errorf("streak = %d, want 1", result.StreakDays)
	}

	user, _ := sync.Get("Kennyball")
	if user.Stats.TotalWorkouts != 1 || user.Stats.TotalVolume != 1500 {
		t.Errorf("stats not updated: %+v", user.Stats)
	}
	if user.LastWorkoutDate != "2026-08-30" {
		t.Errorf("last workout date = %q", user.LastWorkoutDate)
	}
	if len(user.Log) != 1 {
		t.Fatalf("log has %d entries, want 1", len(user.Log))
	}
	if pending := svc.PendingActivities("Kennyball"); len(pending) != 0 {
		t.Error("pending session not cleared after completion")
	}
}

func TestCompleteSession_StreakAcrossDays(t *testing.T) {
	svc, sync := newTestSessionService(t)
	ctx := context.Background()
	day1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	svc.at(day1)
	if _, err := svc.AddActivity(ctx, "Beerbjorn", walk(10)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteSession(ctx, "Beerbjorn"); err != nil {
		t.Fatal(err)
	}

	svc.at(day1.AddDate(0, 0, 1))
	if _, err := svc.AddActivity(ctx, "Beerbjorn", walk(10)); err != nil {
		t.Fatal(err)
	}
	result, err := svc.CompleteSession(ctx, "Beerbjorn")
	if err != nil {
		t.Fatal(err)
	}
	if result.StreakDays != 2 {
		t.Errorf("streak = %d, want 2", result.StreakDays)
	}
	if result.Entry.TotalXP != 110 {
		t.Errorf("day 2 total = %d, want 110 with the 10%% bonus", result.Entry.TotalXP)
	}
	user, _ := sync.Get("Beerbjorn")
	if user.Streak != 2 {
		t.Errorf("stored streak = %d, want 2", user.Streak)
	}
}

func TestCompleteSession_FailedWriteKeepsPending(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()
	sync := NewSynchronizer(store)
	if err := sync.Load(ctx); err != nil {
		t.Fatal(err)
	}
	svc := NewSessionService(sync, NopNotifier{})

	if _, err := svc.AddActivity(ctx, "Helgrim", walk(5)); err != nil {
		t.Fatal(err)
	}
	store.failWrites = true
	_, err := svc.CompleteSession(ctx, "Helgrim")
	var syncErr *models.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("got %v, want SyncError", err)
	}
	if pending := svc.PendingActivities("Helgrim"); len(pending) != 1 {
		t.Errorf("pending lost after failed sync: %d activities", len(pending))
	}
	user, _ := sync.Get("Helgrim")
	if user.XP != 0 {
		t.Errorf("XP committed despite failed write: %d", user.XP)
	}
}

func TestDeleteLogEntry_Window(t *testing.T) {
	svc, sync := newTestSessionService(t)
	ctx := context.Background()
	day1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	svc.at(day1)
	if _, err := svc.AddActivity(ctx, "Skytebasen", walk(5)); err != nil {
		t.Fatal(err)
	}
	result, err := svc.CompleteSession(ctx, "Skytebasen")
	if err != nil {
		t.Fatal(err)
	}
	entryID := result.Entry.EntryID
	xpAfter := result.User.XP

	svc.at(day1.Add(49 * time.Hour))
	var permission *models.PermissionError
	if _, err := svc.DeleteLogEntry(ctx, "Skytebasen", entryID); !errors.As(err, &permission) {
		t.Errorf("49h later: got %v, want PermissionError", err)
	}

	svc.at(day1.Add(47 * time.Hour))
	user, err := svc.DeleteLogEntry(ctx, "Skytebasen", entryID)
	if err != nil {
		t.Fatal(err)
	}
	if len(user.Log) != 0 {
		t.Errorf("log still has %d entries after delete", len(user.Log))
	}
	if user.XP != xpAfter {
		t.Errorf("XP retracted by delete: %d, want %d", user.XP, xpAfter)
	}
	stored, _ := sync.Get("Skytebasen")
	if stored.Stats.TotalWorkouts != 1 {
		t.Errorf("workout count retracted by delete: %d", stored.Stats.TotalWorkouts)
	}
}

func TestDeleteLogEntry_UnknownEntry(t *testing.T) {
	svc, _ := newTestSessionService(t)
	_, err := svc.DeleteLogEntry(context.Background(), "Helgrim", 12345)
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("got %v, want NotFoundError", err)
	}
}

func TestSetTheme_TracksTried(t *testing.T) {
	svc, _ := newTestSessionService(t)
	ctx := context.Background()

	for _, theme := range []string{"neon", "forest"} {
		if _, _, err := svc.SetTheme(ctx, "Klinkekule", theme); err != nil {
			t.Fatal(err)
		}
	}
	user, unlocked, err := svc.SetTheme(ctx, "Klinkekule", "midnight")
	if err != nil {
		t.Fatal(err)
	}
	if user.Theme != "midnight" {
		t.Errorf("active theme = %q", user.Theme)
	}
	if user.Stats.ThemesTried.Len() != 3 {
		t.Errorf("themes tried = %d, want 3 switches", user.Stats.ThemesTried.Len())
	}
	if !hasID(unlocked, "theme_tourist") {
		t.Error("theme_tourist not unlocked after third new theme")
	}
}

func TestWorkoutLog_NewestFirst(t *testing.T) {
	svc, sync := newTestSessionService(t)
	ctx := context.Background()

	if _, err := sync.Mutate(ctx, "Helgrim", func(u *models.UserRecord) error {
		u.Log = []models.LogEntry{
			{EntryID: 1, ISODate: "2026-08-20"},
			{EntryID: 3, ISODate: "2026-08-28"},
			{EntryID: 2, ISODate: "2026-08-25"},
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.WorkoutLog("Helgrim")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int64{3, 2, 1} {
		if entries[i].EntryID != want {
			t.Fatalf("log order = %v, want newest first", entries)
		}
	}
}

func TestLogout_DiscardsPending(t *testing.T) {
	svc, _ := newTestSessionService(t)
	if _, err := svc.AddActivity(context.Background(), "Helgrim", walk(3)); err != nil {
		t.Fatal(err)
	}
	svc.Logout("Helgrim")
	if pending := svc.PendingActivities("Helgrim"); len(pending) != 0 {
		t.Errorf("pending survived logout: %d activities", len(pending))
	}
}
