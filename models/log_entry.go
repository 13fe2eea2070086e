package models

// Activity kinds. Walks score by distance, everything else by lifted volume.
const (
	ActivityWalk     = "walk"
	ActivityWeighted = "weighted"
	ActivityCustom   = "custom"
)

// Mood values a user can attach to an activity.
const (
	MoodGreat = "great"
	MoodGood  = "good"
	MoodOK    = "ok"
	MoodMeh   = "meh"
	MoodBad   = "bad"
)

// ValidMood reports whether mood is one of the fixed enum values.
func ValidMood(mood string) bool {
	switch mood {
	case MoodGreat, MoodGood, MoodOK, MoodMeh, MoodBad:
		return true
	}
	return false
}

// Activity is a single exercise within a session. Immutable once added.
type Activity struct {
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	Kg      float64 `json:"kg,omitempty"`
	Reps    int     `json:"reps,omitempty"`
	Sets    int     `json:"sets,omitempty"`
	Km      float64 `json:"km,omitempty"`
	XP      int64   `json:"xp"` // mood-adjusted XP for this activity
	Comment string  `json:"comment,omitempty"`
	Mood    string  `json:"mood"`
}

// Volume returns kg×reps×sets for weighted activities, 0 for walks.
func (a Activity) Volume() float64 {
	if a.Kind == ActivityWalk {
		return 0
	}
	return a.Kg * float64(a.Reps) * float64(a.Sets)
}

// LogEntry is one finalized workout session. Exercises and baseXP are fixed
// at creation; only the entry's presence in the log can change (deletion
// within the 48-hour window).
type LogEntry struct {
	EntryID     int64      `json:"entryId"` // millisecond timestamp, bumped past collisions
	ISODate     string     `json:"isoDate"` // yyyy-mm-dd
	Exercises   []Activity `json:"exercises"`
	TotalXP     int64      `json:"totalXP"` // baseXP × streak multiplier, rounded
	BaseXP      int64      `json:"baseXP"`
	TotalVolume float64    `json:"totalVolume"`
	TotalKm     float64    `json:"totalKm"`
	StreakDays  int        `json:"streakDays"`
	StreakBonus string     `json:"streakBonus,omitempty"`
	Mood        string     `json:"mood"` // mood of the session's final activity
}
