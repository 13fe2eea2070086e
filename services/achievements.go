package services

import (
	"log"

	"fitness-tracker-system/models"
)

// EvaluateAchievements runs every rule against the user snapshot and appends
// the ids of newly satisfied ones. Already-held achievements are never
// re-awarded and never revoked, so the call is idempotent. A panicking rule is
// logged and skipped; the remaining rules still run.
func EvaluateAchievements(user *models.UserRecord) []models.Achievement {
	var unlocked []models.Achievement
	for _, rule := range models.AchievementList {
		if user.HasAchievement(rule.ID) {
			continue
		}
		if safeCriteria(rule, user) {
			user.Achievements = append(user.Achievements, rule.ID)
			unlocked = append(unlocked, rule)
		}
	}
	return unlocked
}

func safeCriteria(rule models.Achievement, user *models.UserRecord) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Achievement rule %s panicked: %v", rule.ID, r)
			ok = false
		}
	}()
	return rule.Criteria(user)
}

// AchievementByID looks up a rule definition, for display.
func AchievementByID(id string) (models.Achievement, bool) {
	for _, rule := range models.AchievementList {
		if rule.ID == id {
			return rule, true
		}
	}
	return models.Achievement{}, false
}
