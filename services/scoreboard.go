package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"fitness-tracker-system/models"
)

// ScoreboardService ranks users by XP earned in the current week and runs the
// snoop flow. Weeks start on Monday. When redis is available the weekly
// ranking is cached in a ZSET; without it the mirror is ranked directly.
type ScoreboardService struct {
	sync     *Synchronizer
	rdb      *redis.Client
	notifier Notifier
	now      func() time.Time
}

func NewScoreboardService(sync *Synchronizer, rdb *redis.Client, notifier Notifier) *ScoreboardService {
	return &ScoreboardService{sync: sync, rdb: rdb, notifier: notifier, now: time.Now}
}

// ScoreboardRow is one ranked line of the weekly board.
type ScoreboardRow struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	WeekXP   int64  `json:"weekXP"`
	Level    int    `json:"level"`
	Emoji    string `json:"emoji"`
	Streak   int    `json:"streak"`
}

// WeekStart returns the Monday of the week containing t, as an ISO date.
func WeekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

// weekXP sums TotalXP of log entries dated on or after the week start.
func weekXP(user models.UserRecord, weekStart string) int64 {
	var total int64
	for _, entry := range user.Log {
		if entry.ISODate >= weekStart {
			total += entry.TotalXP
		}
	}
	return total
}

// Weekly returns the current week's board, best first. Ties break by name.
func (s *ScoreboardService) Weekly(ctx context.Context) []ScoreboardRow {
	weekStart := WeekStart(s.now())
	users := s.sync.Snapshot()

	rows := make([]ScoreboardRow, 0, len(users))
	for name, user := range users {
		rows = append(rows, ScoreboardRow{
			Username: name,
			WeekXP:   weekXP(user, weekStart),
			Level:    user.Level,
			Emoji:    LevelEmoji(user.Level),
			Streak:   user.Streak,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeekXP != rows[j].WeekXP {
			return rows[i].WeekXP > rows[j].WeekXP
		}
		return rows[i].Username < rows[j].Username
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	s.cacheWeekly(ctx, weekStart, rows)
	return rows
}

func (s *ScoreboardService) cacheWeekly(ctx context.Context, weekStart string, rows []ScoreboardRow) {
	if s.rdb == nil {
		return
	}
	key := "fitness:scoreboard:" + weekStart
	members := make([]redis.Z, len(rows))
	for i, row := range rows {
		members[i] = redis.Z{Score: float64(row.WeekXP), Member: row.Username}
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, 14*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("⚠️ Failed to cache weekly scoreboard: %v", err)
	}
}

// WeekSummary aggregates the last seven days of one user's log.
type WeekSummary struct {
	Workouts int     `json:"workouts"`
	XP       int64   `json:"xp"`
	Km       float64 `json:"km"`
	Volume   float64 `json:"volume"`
}

func summarizeWeek(user models.UserRecord, now time.Time) WeekSummary {
	cutoff := now.AddDate(0, 0, -7).Format("2006-01-02")
	var sum WeekSummary
	for _, entry := range user.Log {
		if entry.ISODate > cutoff {
			sum.Workouts++
			sum.XP += entry.TotalXP
			sum.Km += entry.TotalKm
			sum.Volume += entry.TotalVolume
		}
	}
	return sum
}

// SnoopView is what the snooper gets to see.
type SnoopView struct {
	Username     string               `json:"username"`
	Level        int                  `json:"level"`
	LevelName    string               `json:"levelName"`
	XP           int64                `json:"xp"`
	Streak       int                  `json:"streak"`
	Achievements []string             `json:"achievements"`
	LastWeek     WeekSummary          `json:"lastWeek"`
	Unlocked     []models.Achievement `json:"unlocked,omitempty"` // snooper's own new unlocks
}

// Snoop shows snooper the target's profile. The target gets flagged and
// finds out at their next login; the snooper's counter goes up, which can
// itself unlock an achievement.
func (s *ScoreboardService) Snoop(ctx context.Context, snooper, target string) (SnoopView, error) {
	if snooper == target {
		return SnoopView{}, models.Validationf("snooping on yourself is just a mirror")
	}
	targetUser, ok := s.sync.Get(target)
	if !ok {
		return SnoopView{}, &models.NotFoundError{Kind: "user", Key: target}
	}

	if err := s.sync.MarkSnooped(ctx, target); err != nil {
		return SnoopView{}, err
	}
	if err := s.sync.IncrementSnoops(ctx, snooper); err != nil {
		return SnoopView{}, err
	}
	unlocked := s.evaluateSnooper(ctx, snooper)

	s.notifier.Publish(Event{
		Type: EventSnoop,
		User: target,
		Data: map[string]interface{}{"by": snooper},
	})
	log.Printf("👀 %s snooped on %s", snooper, target)

	return SnoopView{
		Username:     target,
		Level:        targetUser.Level,
		LevelName:    LevelName(targetUser.Level),
		XP:           targetUser.XP,
		Streak:       targetUser.Streak,
		Achievements: targetUser.Achievements,
		LastWeek:     summarizeWeek(targetUser, s.now()),
		Unlocked:     unlocked,
	}, nil
}

func (s *ScoreboardService) evaluateSnooper(ctx context.Context, snooper string) []models.Achievement {
	var unlocked []models.Achievement
	if _, err := s.sync.Mutate(ctx, snooper, func(u *models.UserRecord) error {
		unlocked = EvaluateAchievements(u)
		return nil
	}); err != nil {
		log.Printf("⚠️ Achievement check after snoop failed for %s: %v", snooper, err)
		return nil
	}
	return unlocked
}

// Profile is the public card shown on the roster screen.
type Profile struct {
	Username   string `json:"username"`
	XP         int64  `json:"xp"`
	Level      int    `json:"level"`
	LevelName  string `json:"levelName"`
	LevelEmoji string `json:"levelEmoji"`
	Streak     int    `json:"streak"`
}

// Roster lists everyone's public card, highest all-time XP first.
func (s *ScoreboardService) Roster() []Profile {
	users := s.sync.Snapshot()
	profiles := make([]Profile, 0, len(users))
	for name, user := range users {
		profiles = append(profiles, Profile{
			Username:   name,
			XP:         user.XP,
			Level:      user.Level,
			LevelName:  LevelName(user.Level),
			LevelEmoji: LevelEmoji(user.Level),
			Streak:     user.Streak,
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].XP != profiles[j].XP {
			return profiles[i].XP > profiles[j].XP
		}
		return profiles[i].Username < profiles[j].Username
	})
	return profiles
}

// ProgressCard is the logged-in user's own XP bar data.
type ProgressCard struct {
	Username   string  `json:"username"`
	XP         int64   `json:"xp"`
	Level      int     `json:"level"`
	LevelName  string  `json:"levelName"`
	LevelEmoji string  `json:"levelEmoji"`
	IntoLevel  int64   `json:"intoLevel"`
	ToNext     int64   `json:"toNext"`
	Fraction   float64 `json:"fraction"`
}

func (s *ScoreboardService) Progress(username string) (ProgressCard, error) {
	user, ok := s.sync.Get(username)
	if !ok {
		return ProgressCard{}, &models.NotFoundError{Kind: "user", Key: username}
	}
	return ProgressCard{
		Username:   username,
		XP:         user.XP,
		Level:      user.Level,
		LevelName:  LevelName(user.Level),
		LevelEmoji: LevelEmoji(user.Level),
		IntoLevel:  XPInCurrentLevel(user.XP),
		ToNext:     XPForLevelGain(user.Level + 1),
		Fraction:   ProgressFraction(user.XP),
	}, nil
}
