package services

import (
	"testing"

	"fitness-tracker-system/models"
)

func blankUser(name string) *models.UserRecord {
	user := NewUser(name)
	return &user
}

func hasID(unlocked []models.Achievement, id string) bool {
	for _, a := range unlocked {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestAchievementList_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range models.AchievementList {
		if seen[a.ID] {
			t.Errorf("duplicate achievement ID: %s", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestEvaluateAchievements_FreshUser(t *testing.T) {
	user := blankUser("Dardna")
	unlocked := EvaluateAchievements(user)
	if len(unlocked) != 0 {
		t.Errorf("fresh user unlocked %d achievements, want 0", len(unlocked))
	}
}

func TestEvaluateAchievements_BelowAndAtThreshold(t *testing.T) {
	user := blankUser("Nikko")
	user.Stats.TotalWorkouts = 9
	if unlocked := EvaluateAchievements(user); hasID(unlocked, "ten_workouts") {
		t.Error("ten_workouts unlocked at 9 workouts")
	}
	user.Stats.TotalWorkouts = 10
	if unlocked := EvaluateAchievements(user); !hasID(unlocked, "ten_workouts") {
		t.Error("ten_workouts not unlocked at 10 workouts")
	}
}

func TestEvaluateAchievements_Idempotent(t *testing.T) {
	user := blankUser("Kennyball")
	user.Stats.TotalWorkouts = 1
	first := EvaluateAchievements(user)
	if !hasID(first, "first_workout") {
		t.Fatal("first_workout not unlocked")
	}
	second := EvaluateAchievements(user)
	if len(second) != 0 {
		t.Errorf("second evaluation unlocked %d achievements again", len(second))
	}
	count := 0
	for _, id := range user.Achievements {
		if id == "first_workout" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("first_workout recorded %d times, want 1", count)
	}
}

func TestEvaluateAchievements_NeverRevokes(t *testing.T) {
	user := blankUser("Beerbjorn")
	user.Stats.TotalWorkouts = 10
	EvaluateAchievements(user)
	user.Stats.TotalWorkouts = 0
	EvaluateAchievements(user)
	if !user.HasAchievement("ten_workouts") {
		t.Error("achievement revoked after stats dropped")
	}
}

func TestEvaluateAchievements_MultipleAtOnce(t *testing.T) {
	user := blankUser("Helgrim")
	user.Stats.TotalWorkouts = 1
	user.Level = 5
	unlocked := EvaluateAchievements(user)
	if !hasID(unlocked, "first_workout") || !hasID(unlocked, "level_five") {
		t.Errorf("expected both unlocks, got %v", unlocked)
	}
}

func TestSafeCriteria_PanicIsolated(t *testing.T) {
	rule := models.Achievement{
		ID:       "explosive",
		Criteria: func(*models.UserRecord) bool { panic("boom") },
	}
	if safeCriteria(rule, blankUser("Skytebasen")) {
		t.Error("panicking rule reported satisfied")
	}
}

func TestAchievementByID(t *testing.T) {
	if _, ok := AchievementByID("first_workout"); !ok {
		t.Error("first_workout not found")
	}
	if _, ok := AchievementByID("no_such_thing"); ok {
		t.Error("unknown id reported found")
	}
}
