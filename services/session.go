package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"fitness-tracker-system/models"
)

// EditWindow is how long after creation a log entry stays deletable.
const EditWindow = 48 * time.Hour

// SessionService orchestrates a user's workout flow: login, building up a
// pending session activity by activity, completing it, and pruning mistakes.
// Pending sessions live in memory only; until completed nothing is persisted.
type SessionService struct {
	sync     *Synchronizer
	notifier Notifier

	mu      sync.Mutex
	pending map[string][]models.Activity

	now func() time.Time
}

func NewSessionService(sync *Synchronizer, notifier Notifier) *SessionService {
	return &SessionService{
		sync:     sync,
		notifier: notifier,
		pending:  make(map[string][]models.Activity),
		now:      time.Now,
	}
}

// LoginResult carries the refreshed record plus the one-shot snoop flag,
// which is cleared by the login itself.
type LoginResult struct {
	User       models.UserRecord `json:"user"`
	WasSnooped bool              `json:"wasSnooped"`
	XPToNext   int64             `json:"xpToNext"`
	LevelName  string            `json:"levelName"`
	LevelEmoji string            `json:"levelEmoji"`
}

// Login stamps the login time and consumes the snoop notification.
func (s *SessionService) Login(ctx context.Context, username string) (LoginResult, error) {
	wasSnooped := false
	now := s.now()
	user, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		wasSnooped = u.Snooped
		u.Snooped = false
		u.LastLogin = &now
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	log.Printf("👋 %s logged in (level %d, %d XP)", username, user.Level, user.XP)
	return LoginResult{
		User:       user,
		WasSnooped: wasSnooped,
		XPToNext:   XPForLevelGain(user.Level + 1),
		LevelName:  LevelName(user.Level),
		LevelEmoji: LevelEmoji(user.Level),
	}, nil
}

// Logout discards any pending, uncompleted session.
func (s *SessionService) Logout(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, username)
}

// AddActivity validates and scores one activity and parks it in the user's
// pending session. The returned activity carries its mood-adjusted XP.
func (s *SessionService) AddActivity(ctx context.Context, username string, activity models.Activity) (models.Activity, error) {
	if _, ok := s.sync.Get(username); !ok {
		return models.Activity{}, &models.NotFoundError{Kind: "user", Key: username}
	}
	if activity.Mood == "" {
		activity.Mood = models.MoodGood
	}
	if !models.ValidMood(activity.Mood) {
		return models.Activity{}, models.Validationf("unknown mood %q", activity.Mood)
	}
	baseXP, err := ScoreActivity(activity)
	if err != nil {
		return models.Activity{}, err
	}
	activity.XP = AdjustForMood(baseXP, activity.Mood)
	if activity.Comment == "" {
		activity.Comment = CommentFor(activity)
	}

	s.mu.Lock()
	s.pending[username] = append(s.pending[username], activity)
	s.mu.Unlock()
	return activity, nil
}

// WorkoutLog returns the user's log newest first. Storage order is not
// guaranteed, so it is sorted at read time.
func (s *SessionService) WorkoutLog(username string) ([]models.LogEntry, error) {
	user, ok := s.sync.Get(username)
	if !ok {
		return nil, &models.NotFoundError{Kind: "user", Key: username}
	}
	entries := user.Log
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ISODate != entries[j].ISODate {
			return entries[i].ISODate > entries[j].ISODate
		}
		return entries[i].EntryID > entries[j].EntryID
	})
	return entries, nil
}

// PendingActivities returns a copy of the user's uncompleted session.
func (s *SessionService) PendingActivities(username string) []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Activity(nil), s.pending[username]...)
}

// SessionResult reports everything a completed session changed at once.
type SessionResult struct {
	Entry      models.LogEntry      `json:"entry"`
	User       models.UserRecord    `json:"user"`
	LeveledUp  bool                 `json:"leveledUp"`
	NewLevel   int                  `json:"newLevel"`
	LevelName  string               `json:"levelName"`
	Unlocked   []models.Achievement `json:"unlocked"`
	DailyTip   string               `json:"dailyTip"`
	StreakDays int                  `json:"streakDays"`
}

// CompleteSession finalizes the pending activities into a log entry, awards
// XP with the streak bonus, updates stats and streak, and evaluates
// achievements. The pending session is cleared only after the write lands,
// so a failed sync leaves it intact for a retry.
func (s *SessionService) CompleteSession(ctx context.Context, username string) (SessionResult, error) {
	s.mu.Lock()
	activities := append([]models.Activity(nil), s.pending[username]...)
	s.mu.Unlock()
	if len(activities) == 0 {
		return SessionResult{}, models.Validationf("no activities in this session")
	}

	now := s.now()
	today := now.Format("2006-01-02")

	var result SessionResult
	user, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		oldLevel := LevelFromXP(u.XP)
		streak := ComputeStreak(u.LastWorkoutDate, today, u.Streak)
		entry := FinalizeSession(activities, u.Log, streak, now)

		u.Log = append(u.Log, entry)
		u.XP += entry.TotalXP
		u.Streak = streak
		u.LastWorkoutDate = today
		u.Stats.TotalWorkouts++
		u.Stats.TotalKm += entry.TotalKm
		u.Stats.TotalVolume += entry.TotalVolume
		u.Stats.LastMood = entry.Mood

		u.Level = LevelFromXP(u.XP)
		result.Unlocked = EvaluateAchievements(u)

		result.Entry = entry
		result.LeveledUp = u.Level > oldLevel
		result.NewLevel = u.Level
		result.StreakDays = streak
		return nil
	})
	if err != nil {
		return SessionResult{}, err
	}

	s.mu.Lock()
	delete(s.pending, username)
	s.mu.Unlock()

	result.User = user
	result.LevelName = LevelName(user.Level)
	result.DailyTip = DailyTip(now)

	log.Printf("🏋️ %s completed a session: +%d XP (streak %d)", username, result.Entry.TotalXP, result.StreakDays)
	if result.LeveledUp {
		log.Printf("🎉 %s reached level %d (%s)", username, result.NewLevel, result.LevelName)
		s.notifier.Publish(Event{
			Type: EventLevelUp,
			User: username,
			Data: map[string]interface{}{"level": result.NewLevel, "name": result.LevelName},
		})
	}
	for _, a := range result.Unlocked {
		s.notifier.Publish(Event{
			Type: EventAchievement,
			User: username,
			Data: map[string]interface{}{"id": a.ID, "name": a.Name},
		})
	}
	return result, nil
}

// DeleteLogEntry removes a session logged within the last 48 hours. Earned
// XP, stats and achievements stay; only the entry itself goes. Older entries
// are frozen history.
func (s *SessionService) DeleteLogEntry(ctx context.Context, username string, entryID int64) (models.UserRecord, error) {
	now := s.now()
	return s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		entry := u.FindLogEntry(entryID)
		if entry == nil {
			return &models.NotFoundError{Kind: "log entry", Key: formatEntryID(entryID)}
		}
		created := time.UnixMilli(entry.EntryID)
		if now.Sub(created) > EditWindow {
			return &models.PermissionError{Msg: "entries older than 48 hours cannot be deleted"}
		}
		kept := u.Log[:0]
		for _, e := range u.Log {
			if e.EntryID != entryID {
				kept = append(kept, e)
			}
		}
		u.Log = kept
		return nil
	})
}

// SetTheme switches the active theme and records it as tried.
func (s *SessionService) SetTheme(ctx context.Context, username, theme string) (models.UserRecord, []models.Achievement, error) {
	if theme == "" {
		return models.UserRecord{}, nil, models.Validationf("theme must not be empty")
	}
	var unlocked []models.Achievement
	user, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		u.Theme = theme
		u.Stats.ThemesTried.Add(theme)
		unlocked = EvaluateAchievements(u)
		return nil
	})
	if err != nil {
		return models.UserRecord{}, nil, err
	}
	return user, unlocked, nil
}

func formatEntryID(entryID int64) string {
	return time.UnixMilli(entryID).UTC().Format("2006-01-02T15:04:05.000Z")
}
