package services

import (
	"fmt"
	"math"
	"time"

	"fitness-tracker-system/models"
)

// Anti-cheat ceilings, per single logged activity.
const (
	MaxWeightKg = 250
	MaxReps     = 200
	MaxKmWalk   = 50
)

// XP formula weights.
const (
	xpPerKm        = 10  // walks: 10 XP per km
	volumePerXP    = 100 // lifts: 1 XP per 100 kg of volume
	maxStreakBonus = 1.5
)

// moodMultipliers adjust an activity's base XP. "good" is the neutral
// default; nothing here can turn XP negative.
var moodMultipliers = map[string]float64{
	models.MoodGreat: 1.25,
	models.MoodGood:  1.0,
	models.MoodOK:    1.0,
	models.MoodMeh:   0.9,
	models.MoodBad:   0.75,
}

// ScoreActivity computes base XP for a single activity and enforces the
// anti-cheat ceilings. Rejected activities are not scored or added.
func ScoreActivity(a models.Activity) (int64, error) {
	switch a.Kind {
	case models.ActivityWalk:
		if a.Km <= 0 {
			return 0, models.Validationf("invalid distance: %.1f km", a.Km)
		}
		if a.Km > MaxKmWalk {
			return 0, models.Validationf("nice try: %d km is the max per walk", MaxKmWalk)
		}
		return int64(math.Round(a.Km * xpPerKm)), nil
	case models.ActivityWeighted, models.ActivityCustom:
		if a.Kind == models.ActivityCustom && a.Name == "" {
			return 0, models.Validationf("custom activity needs a name")
		}
		if a.Kg < 0 || a.Reps < 1 || a.Sets < 1 {
			return 0, models.Validationf("invalid kg/reps/sets values")
		}
		if a.Kg > MaxWeightKg {
			return 0, models.Validationf("nice try: %d kg is the max weight per log", MaxWeightKg)
		}
		if a.Reps > MaxReps {
			return 0, models.Validationf("nice try: %d reps is the max per log", MaxReps)
		}
		xp := int64(math.Round(a.Volume() / volumePerXP))
		if xp < 1 {
			xp = 1
		}
		return xp, nil
	default:
		return 0, models.Validationf("unknown activity kind %q", a.Kind)
	}
}

// AdjustForMood applies the fixed mood multiplier. Unknown moods are treated
// as neutral rather than rejected so older records keep scoring the same.
func AdjustForMood(baseXP int64, mood string) int64 {
	mult, ok := moodMultipliers[mood]
	if !ok {
		mult = 1.0
	}
	xp := int64(math.Round(float64(baseXP) * mult))
	if xp < 0 {
		xp = 0
	}
	return xp
}

// ComputeStreak returns the streak after a session completed on today.
// Yesterday's workout extends the streak, a same-day repeat leaves it
// unchanged, and any gap (or a first workout) resets it to 1.
func ComputeStreak(lastWorkoutDate, today string, currentStreak int) int {
	if lastWorkoutDate == today {
		if currentStreak < 1 {
			return 1
		}
		return currentStreak
	}
	if lastWorkoutDate == yesterdayOf(today) {
		return currentStreak + 1
	}
	return 1
}

func yesterdayOf(isoDate string) string {
	day, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, -1).Format("2006-01-02")
}

// StreakBonusMultiplier is 1.0 for streaks of one day or less, then grows
// 10% per extra day, capped at 1.5.
func StreakBonusMultiplier(streak int) float64 {
	if streak <= 1 {
		return 1.0
	}
	return math.Min(1+float64(streak-1)*0.1, maxStreakBonus)
}

// NextEntryID stamps an entry id for a new log entry. Ids are millisecond
// timestamps bumped past every id already in the log, so two sessions
// completing within the same tick cannot collide.
func NextEntryID(log []models.LogEntry, now time.Time) int64 {
	id := now.UnixMilli()
	for _, entry := range log {
		if entry.EntryID >= id {
			id = entry.EntryID + 1
		}
	}
	return id
}

// FinalizeSession turns the pending activities into a LogEntry. Pure with
// respect to the user record: the caller persists the result.
func FinalizeSession(activities []models.Activity, existingLog []models.LogEntry, streak int, now time.Time) models.LogEntry {
	var baseXP int64
	var volume, km float64
	for _, a := range activities {
		baseXP += a.XP
		volume += a.Volume()
		if a.Kind == models.ActivityWalk {
			km += a.Km
		}
	}

	mult := StreakBonusMultiplier(streak)
	bonusText := ""
	if mult > 1 {
		bonusText = fmt.Sprintf("%.0f%% streak bonus!", (mult-1)*100)
	}

	mood := models.MoodGood
	if len(activities) > 0 {
		mood = activities[len(activities)-1].Mood
	}

	exercises := make([]models.Activity, len(activities))
	copy(exercises, activities)

	return models.LogEntry{
		EntryID:     NextEntryID(existingLog, now),
		ISODate:     now.Format("2006-01-02"),
		Exercises:   exercises,
		TotalXP:     int64(math.Round(float64(baseXP) * mult)),
		BaseXP:      baseXP,
		TotalVolume: volume,
		TotalKm:     km,
		StreakDays:  streak,
		StreakBonus: bonusText,
		Mood:        mood,
	}
}
