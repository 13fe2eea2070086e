package services

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitness-tracker-system/models"
)

// changeChannel is the redis pub/sub channel writers announce on. Listeners
// reload the full snapshot on any message; payloads only say who changed.
const changeChannel = "fitness:users:changed"

// RemoteStore is the persistence boundary. Every method may fail; callers
// treat failures as retryable and roll back optimistic local state.
type RemoteStore interface {
	// LoadAll returns the complete user snapshot.
	LoadAll(ctx context.Context) (map[string]models.UserRecord, error)
	// SetUser writes the full record, creating it if missing.
	SetUser(ctx context.Context, user models.UserRecord) error
	// UpdateFields patches the named columns of one user.
	UpdateFields(ctx context.Context, username string, fields map[string]interface{}) error
	// IncrementStat bumps a counter inside the user's stats blob server-side.
	IncrementStat(ctx context.Context, username string, stat string, delta int) error
	// ReplaceAll wipes the store and writes the given snapshot. Destructive.
	ReplaceAll(ctx context.Context, users map[string]models.UserRecord) error
	// DeleteUser removes one user.
	DeleteUser(ctx context.Context, username string) error
	// Changes yields a signal per remote mutation, including our own.
	// The channel closes when the store shuts down.
	Changes() <-chan string
}

// GormStore persists users in postgres and announces every write over redis
// so other replicas (and our own listener) reconcile.
type GormStore struct {
	db  *gorm.DB
	rdb *redis.Client

	changes chan string
	sub     *redis.PubSub
}

func NewGormStore(ctx context.Context, db *gorm.DB, rdb *redis.Client) *GormStore {
	s := &GormStore{
		db:      db,
		rdb:     rdb,
		changes: make(chan string, 16),
	}
	if rdb != nil {
		s.sub = rdb.Subscribe(ctx, changeChannel)
		go s.pump(ctx)
	}
	return s
}

func (s *GormStore) pump(ctx context.Context) {
	defer close(s.changes)
	for {
		msg, err := s.sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ Redis subscription error: %v", err)
			return
		}
		select {
		case s.changes <- msg.Payload:
		default:
			// Listener is behind; it reloads everything anyway.
		}
	}
}

func (s *GormStore) announce(ctx context.Context, username string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Publish(ctx, changeChannel, username).Err(); err != nil {
		log.Printf("⚠️ Failed to announce change for %s: %v", username, err)
	}
}

func (s *GormStore) LoadAll(ctx context.Context) (map[string]models.UserRecord, error) {
	var rows []models.UserRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, &models.SyncError{Op: "load", Err: err}
	}
	users := make(map[string]models.UserRecord, len(rows))
	for _, row := range rows {
		users[row.Username] = row
	}
	return users, nil
}

func (s *GormStore) SetUser(ctx context.Context, user models.UserRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			UpdateAll: true,
		}).
		Create(&user).Error
	if err != nil {
		return &models.SyncError{Op: "set " + user.Username, Err: err}
	}
	s.announce(ctx, user.Username)
	return nil
}

func (s *GormStore) UpdateFields(ctx context.Context, username string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&models.UserRecord{}).
		Where("username = ?", username).
		Updates(fields)
	if res.Error != nil {
		return &models.SyncError{Op: "update " + username, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	s.announce(ctx, username)
	return nil
}

// IncrementStat patches one counter inside the stats JSON column in a single
// statement, so concurrent increments from other replicas are not lost.
func (s *GormStore) IncrementStat(ctx context.Context, username string, stat string, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.UserRecord{}).
		Where("username = ?", username).
		Update("stats", gorm.Expr(
			"jsonb_set(stats, ?, to_jsonb(COALESCE((stats->>?)::int, 0) + ?))",
			"{"+stat+"}", stat, delta,
		))
	if res.Error != nil {
		return &models.SyncError{Op: "increment " + username + "." + stat, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	s.announce(ctx, username)
	return nil
}

func (s *GormStore) ReplaceAll(ctx context.Context, users map[string]models.UserRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.UserRecord{}).Error; err != nil {
			return err
		}
		for _, user := range users {
			user := user
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &models.SyncError{Op: "replace all", Err: err}
	}
	s.announce(ctx, "*")
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, username string) error {
	res := s.db.WithContext(ctx).Delete(&models.UserRecord{Username: username})
	if res.Error != nil {
		return &models.SyncError{Op: "delete " + username, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	s.announce(ctx, username)
	return nil
}

func (s *GormStore) Changes() <-chan string { return s.changes }

func (s *GormStore) Close() error {
	if s.sub != nil {
		return s.sub.Close()
	}
	return nil
}

// MemoryStore is the local-only fallback used when no DATABASE_URL is
// configured. Data lives for the process lifetime only.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]models.UserRecord
	changes chan string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]models.UserRecord),
		changes: make(chan string),
	}
}

func (s *MemoryStore) LoadAll(ctx context.Context) (map[string]models.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make(map[string]models.UserRecord, len(s.users))
	for name, user := range s.users {
		users[name] = user
	}
	return users, nil
}

func (s *MemoryStore) SetUser(ctx context.Context, user models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Username] = user
	return nil
}

func (s *MemoryStore) UpdateFields(ctx context.Context, username string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	for field, value := range fields {
		applyField(&user, field, value)
	}
	s.users[username] = user
	return nil
}

func (s *MemoryStore) IncrementStat(ctx context.Context, username string, stat string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	switch stat {
	case "timesSnooped":
		user.Stats.TimesSnooped += delta
	case "totalWorkouts":
		user.Stats.TotalWorkouts += delta
	}
	s.users[username] = user
	return nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, users map[string]models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.UserRecord, len(users))
	for name, user := range users {
		s.users[name] = user
	}
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return &models.NotFoundError{Kind: "user", Key: username}
	}
	delete(s.users, username)
	return nil
}

// Changes never fires for MemoryStore; there are no other writers.
func (s *MemoryStore) Changes() <-chan string { return s.changes }

func applyField(user *models.UserRecord, field string, value interface{}) {
	switch field {
	case "xp":
		if v, ok := toInt64(value); ok {
			user.XP = v
		}
	case "level":
		if v, ok := toInt64(value); ok {
			user.Level = int(v)
		}
	case "streak":
		if v, ok := toInt64(value); ok {
			user.Streak = int(v)
		}
	case "theme":
		if v, ok := value.(string); ok {
			user.Theme = v
		}
	case "snooped":
		if v, ok := value.(bool); ok {
			user.Snooped = v
		}
	case "last_workout_date":
		if v, ok := value.(string); ok {
			user.LastWorkoutDate = v
		}
	}
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
