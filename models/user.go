package models

import (
	"encoding/json"
	"sort"
	"time"
)

// UserRecord is the canonical per-user record, keyed by username. The remote
// store holds one row per user; log, achievements and stats are serialized as
// JSON columns. Level is denormalized for display only; it is recomputed from
// XP on every load and mutation and never trusted as stored.
type UserRecord struct {
	Username string `gorm:"primaryKey" json:"-"`

	XP    int64 `json:"xp" gorm:"default:0"`
	Level int   `json:"level" gorm:"default:0"`

	Streak          int    `json:"streak" gorm:"default:0"`
	LastWorkoutDate string `json:"lastWorkoutDate,omitempty"` // ISO date (yyyy-mm-dd), empty = never

	Theme     string     `json:"theme"`
	Snooped   bool       `json:"snooped"` // someone viewed this profile since last login
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	Log          []LogEntry `gorm:"serializer:json;type:jsonb" json:"log"`
	Achievements []string   `gorm:"serializer:json;type:jsonb" json:"achievements"`
	Stats        UserStats  `gorm:"serializer:json;type:jsonb" json:"stats"`

	Timestamps
}

// UserStats are the aggregate counters achievements are evaluated against.
type UserStats struct {
	TotalWorkouts int      `json:"totalWorkouts"`
	TotalKm       float64  `json:"totalKm"`
	TotalVolume   float64  `json:"totalVolume"`
	ThemesTried   ThemeSet `json:"themesTried"`
	TimesSnooped  int      `json:"timesSnooped"`
	LastMood      string   `json:"lastMood,omitempty"`
	ImportedData  bool     `json:"importedData"`
	ExportedData  bool     `json:"exportedData"`
}

// ThemeSet is the working-set representation of the themes a user has tried.
// It serializes as a sorted sequence so stored and exported records stay
// stable and re-importable.
type ThemeSet map[string]bool

func NewThemeSet(themes ...string) ThemeSet {
	s := make(ThemeSet, len(themes))
	for _, t := range themes {
		s[t] = true
	}
	return s
}

func (s ThemeSet) Has(theme string) bool { return s[theme] }

// Add inserts theme and reports whether it was new.
func (s ThemeSet) Add(theme string) bool {
	if s[theme] {
		return false
	}
	s[theme] = true
	return true
}

func (s ThemeSet) Len() int { return len(s) }

func (s ThemeSet) MarshalJSON() ([]byte, error) {
	themes := make([]string, 0, len(s))
	for t := range s {
		themes = append(themes, t)
	}
	sort.Strings(themes)
	return json.Marshal(themes)
}

func (s *ThemeSet) UnmarshalJSON(data []byte) error {
	var themes []string
	if err := json.Unmarshal(data, &themes); err != nil {
		return err
	}
	*s = NewThemeSet(themes...)
	return nil
}

// HasAchievement reports whether the user already holds the achievement.
func (u *UserRecord) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// FindLogEntry returns the log entry with the given id, or nil.
func (u *UserRecord) FindLogEntry(entryID int64) *LogEntry {
	for i := range u.Log {
		if u.Log[i].EntryID == entryID {
			return &u.Log[i]
		}
	}
	return nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
