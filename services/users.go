package services

import (
	"context"
	"log"
	"strings"

	"github.com/gosimple/slug"

	"fitness-tracker-system/models"
)

// UserAdminService holds the operations only the admin may run: managing the
// roster and correcting records by hand.
type UserAdminService struct {
	sync *Synchronizer
}

func NewUserAdminService(sync *Synchronizer) *UserAdminService {
	return &UserAdminService{sync: sync}
}

// AddUser creates a fresh user. Display names get slug-normalized so the
// username is safe as a key and in URLs.
func (s *UserAdminService) AddUser(ctx context.Context, displayName string) (models.UserRecord, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return models.UserRecord{}, models.Validationf("username must not be empty")
	}
	username := slug.Make(name)
	if username == "" {
		return models.UserRecord{}, models.Validationf("%q does not produce a usable username", displayName)
	}
	user := NewUser(username)
	if err := s.sync.Create(ctx, user); err != nil {
		return models.UserRecord{}, err
	}
	log.Printf("➕ User %s added", username)
	return user, nil
}

// RemoveUser deletes the user and their history for good.
func (s *UserAdminService) RemoveUser(ctx context.Context, username string) error {
	if err := s.sync.Delete(ctx, username); err != nil {
		return err
	}
	log.Printf("🗑️ User %s removed", username)
	return nil
}

// ResetUser zeroes a record back to a fresh start, keeping only the name.
func (s *UserAdminService) ResetUser(ctx context.Context, username string) (models.UserRecord, error) {
	user, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		fresh := NewUser(username)
		fresh.CreatedAt = u.CreatedAt
		*u = fresh
		return nil
	})
	if err != nil {
		return models.UserRecord{}, err
	}
	log.Printf("♻️ User %s reset", username)
	return user, nil
}

// AdjustXP adds (or with a negative delta, removes) XP directly. XP never
// goes below zero and the level follows the new total.
func (s *UserAdminService) AdjustXP(ctx context.Context, username string, delta int64) (models.UserRecord, []models.Achievement, error) {
	var unlocked []models.Achievement
	user, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		u.XP += delta
		if u.XP < 0 {
			u.XP = 0
		}
		u.Level = LevelFromXP(u.XP)
		unlocked = EvaluateAchievements(u)
		return nil
	})
	if err != nil {
		return models.UserRecord{}, nil, err
	}
	log.Printf("🛠️ XP of %s adjusted by %d (now %d)", username, delta, user.XP)
	return user, unlocked, nil
}

// SetAchievements overwrites the earned list with the given ids. Unknown ids
// are rejected rather than silently stored.
func (s *UserAdminService) SetAchievements(ctx context.Context, username string, ids []string) (models.UserRecord, error) {
	for _, id := range ids {
		if _, ok := AchievementByID(id); !ok {
			return models.UserRecord{}, models.Validationf("unknown achievement id %q", id)
		}
	}
	return s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		u.Achievements = append([]string(nil), ids...)
		return nil
	})
}
