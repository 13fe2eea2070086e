package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fitness-tracker-system/models"
)

// ExportService moves the whole user set in and out as a single JSON
// document keyed by username. Import is destructive: whatever is in the
// file becomes the store, wholesale.
type ExportService struct {
	sync *Synchronizer
	now  func() time.Time
}

func NewExportService(sync *Synchronizer) *ExportService {
	return &ExportService{sync: sync, now: time.Now}
}

// ExportFilename is the suggested download name for today's export.
func (s *ExportService) ExportFilename() string {
	return fmt.Sprintf("fit_data_%s.json", s.now().Format("2006-01-02"))
}

// Export serializes the full snapshot. The exporting user gets flagged,
// which can unlock an achievement on the spot.
func (s *ExportService) Export(ctx context.Context, requestedBy string) ([]byte, []models.Achievement, error) {
	var unlocked []models.Achievement
	if requestedBy != "" {
		var err error
		unlocked, err = s.markFlag(ctx, requestedBy, func(u *models.UserRecord) { u.Stats.ExportedData = true })
		if err != nil {
			return nil, nil, err
		}
	}

	snapshot := s.sync.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	log.Printf("📦 Exported %d users (%d bytes) for %s", len(snapshot), len(data), requestedBy)
	return data, unlocked, nil
}

// ExportSnapshot serializes without touching any user flags. Used by the
// scheduled backup.
func (s *ExportService) ExportSnapshot() ([]byte, error) {
	return json.MarshalIndent(s.sync.Snapshot(), "", "  ")
}

// Import replaces every user with the file contents. Levels in the file are
// ignored and recomputed from XP. The importing user keeps a flag for it if
// they survive the import.
func (s *ExportService) Import(ctx context.Context, data []byte, requestedBy string) ([]models.Achievement, error) {
	var users map[string]models.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, models.Validationf("not a valid backup file: %v", err)
	}
	if len(users) == 0 {
		return nil, models.Validationf("backup file contains no users")
	}
	for name := range users {
		if name == "" {
			return nil, models.Validationf("backup file contains an unnamed user")
		}
	}

	if err := s.sync.ReplaceAll(ctx, users); err != nil {
		return nil, err
	}
	log.Printf("📥 Imported %d users, previous data replaced", len(users))

	if _, survived := s.sync.Get(requestedBy); !survived {
		return nil, nil
	}
	return s.markFlag(ctx, requestedBy, func(u *models.UserRecord) { u.Stats.ImportedData = true })
}

func (s *ExportService) markFlag(ctx context.Context, username string, set func(*models.UserRecord)) ([]models.Achievement, error) {
	var unlocked []models.Achievement
	_, err := s.sync.Mutate(ctx, username, func(u *models.UserRecord) error {
		set(u)
		unlocked = EvaluateAchievements(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}
