package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"fitness-tracker-system/models"
)

// DefaultRoster is the household crew seeded on first boot against an empty
// store. Each starts at zero with a theme named after themselves.
var DefaultRoster = []string{
	"Helgrim",
	"krrroppekatt",
	"Kennyball",
	"Beerbjorn",
	"Dardna",
	"Nikko",
	"Skytebasen",
	"Klinkekule",
}

// Synchronizer keeps an in-process mirror of the remote user store. All
// reads serve from the mirror; writes go remote-first and only land in the
// mirror once the store accepted them, so a failed write leaves no trace.
// The mutex serializes mutations against reconciliation from the listener.
type Synchronizer struct {
	mu    sync.RWMutex
	store RemoteStore
	users map[string]models.UserRecord
}

func NewSynchronizer(store RemoteStore) *Synchronizer {
	return &Synchronizer{
		store: store,
		users: make(map[string]models.UserRecord),
	}
}

// Load pulls the full snapshot, seeds the default roster into an empty store,
// and primes the mirror. Called once at startup before serving requests.
func (s *Synchronizer) Load(ctx context.Context) error {
	users, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		log.Println("🌱 Empty store, seeding default roster")
		for _, name := range DefaultRoster {
			user := NewUser(name)
			if err := s.store.SetUser(ctx, user); err != nil {
				return err
			}
			users[name] = user
		}
	}
	s.ReconcileSnapshot(users)
	log.Printf("✅ User store loaded (%d users)", len(users))
	return nil
}

// NewUser returns a zeroed record with the username's own theme active.
func NewUser(username string) models.UserRecord {
	return normalizeUser(models.UserRecord{
		Username: username,
		Theme:    strings.ToLower(username),
	})
}

// ReconcileSnapshot replaces the mirror with a remote snapshot. Every record
// is normalized on the way in: nil collections become empty ones and the
// stored level is recomputed from XP. Remote writers can leave records
// partial; after reconciliation they never are. Themes join themesTried only
// through SetTheme, so a record with no stats reconciles to an empty set.
func (s *Synchronizer) ReconcileSnapshot(users map[string]models.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.UserRecord, len(users))
	for name, user := range users {
		user.Username = name
		s.users[name] = normalizeUser(user)
	}
}

func normalizeUser(user models.UserRecord) models.UserRecord {
	if user.Log == nil {
		user.Log = []models.LogEntry{}
	}
	if user.Achievements == nil {
		user.Achievements = []string{}
	}
	if user.Stats.ThemesTried == nil {
		user.Stats.ThemesTried = models.NewThemeSet()
	}
	if user.Theme == "" {
		user.Theme = strings.ToLower(user.Username)
	}
	if user.XP < 0 {
		user.XP = 0
	}
	if user.Streak < 0 {
		user.Streak = 0
	}
	user.Level = LevelFromXP(user.XP)
	return user
}

// Get returns a deep copy of one user's record.
func (s *Synchronizer) Get(username string) (models.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return models.UserRecord{}, false
	}
	return copyUser(user), true
}

// Usernames returns all known usernames, sorted.
func (s *Synchronizer) Usernames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of the whole mirror, for export and backup.
func (s *Synchronizer) Snapshot() map[string]models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make(map[string]models.UserRecord, len(s.users))
	for name, user := range s.users {
		users[name] = copyUser(user)
	}
	return users
}

// Mutate applies fn to a copy of the user, persists the result, and commits
// it to the mirror only if the remote write succeeded. fn errors and sync
// errors both leave the mirror untouched.
func (s *Synchronizer) Mutate(ctx context.Context, username string, fn func(*models.UserRecord) error) (models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[username]
	if !ok {
		return models.UserRecord{}, &models.NotFoundError{Kind: "user", Key: username}
	}
	updated := copyUser(current)
	if err := fn(&updated); err != nil {
		return models.UserRecord{}, err
	}
	updated.Username = username
	updated.Level = LevelFromXP(updated.XP)
	if err := s.store.SetUser(ctx, updated); err != nil {
		return models.UserRecord{}, err
	}
	s.users[username] = updated
	return copyUser(updated), nil
}

// Create persists a brand-new record and commits it to the mirror. Fails if
// the username is already taken.
func (s *Synchronizer) Create(ctx context.Context, user models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return models.Validationf("user %q already exists", user.Username)
	}
	user = normalizeUser(user)
	if err := s.store.SetUser(ctx, user); err != nil {
		return err
	}
	s.users[user.Username] = user
	return nil
}

// Delete removes the user remotely and locally. The XP and stats they
// contributed to history stay gone with them; nothing is retracted from
// anyone else.
func (s *Synchronizer) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	if err := s.store.DeleteUser(ctx, username); err != nil {
		return err
	}
	delete(s.users, username)
	return nil
}

// ReplaceAll swaps the entire user set, remote-first. Used by import.
func (s *Synchronizer) ReplaceAll(ctx context.Context, users map[string]models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := make(map[string]models.UserRecord, len(users))
	for name, user := range users {
		user.Username = name
		normalized[name] = normalizeUser(user)
	}
	if err := s.store.ReplaceAll(ctx, normalized); err != nil {
		return err
	}
	s.users = normalized
	return nil
}

// MarkSnooped flips the target's notification flag with a partial update;
// the rest of their record is left alone.
func (s *Synchronizer) MarkSnooped(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	if err := s.store.UpdateFields(ctx, username, map[string]interface{}{"snooped": true}); err != nil {
		return err
	}
	user.Snooped = true
	s.users[username] = user
	return nil
}

// IncrementSnoops bumps the snooper's counter server-side so concurrent
// snoops from elsewhere are not lost, then mirrors the bump locally.
func (s *Synchronizer) IncrementSnoops(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	if err := s.store.IncrementStat(ctx, username, "timesSnooped", 1); err != nil {
		return err
	}
	user.Stats.TimesSnooped++
	s.users[username] = user
	return nil
}

func copyUser(user models.UserRecord) models.UserRecord {
	out := user
	out.Log = make([]models.LogEntry, len(user.Log))
	for i, entry := range user.Log {
		out.Log[i] = entry
		out.Log[i].Exercises = append([]models.Activity(nil), entry.Exercises...)
	}
	out.Achievements = append([]string(nil), user.Achievements...)
	themes := make(models.ThemeSet, len(user.Stats.ThemesTried))
	for theme := range user.Stats.ThemesTried {
		themes[theme] = true
	}
	out.Stats.ThemesTried = themes
	return out
}
