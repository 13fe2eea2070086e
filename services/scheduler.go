// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"fitness-tracker-system/utils"
)

// StartBackupScheduler uploads a full JSON snapshot to R2 once a day. The
// returned scheduler should be shut down on exit.
func StartBackupScheduler(export *ExportService) gocron.Scheduler {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Daily at 03:30: off-site snapshot
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 30, 0))),
		gocron.NewTask(func() {
			data, err := export.ExportSnapshot()
			if err != nil {
				log.Printf("[Backup] Snapshot failed: %v", err)
				return
			}
			key := fmt.Sprintf("backups/fit_data_%s.json", time.Now().Format("2006-01-02"))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := utils.UploadBackupToR2(ctx, data, key); err != nil {
				log.Printf("[Backup] Upload failed: %v", err)
				return
			}
			log.Printf("💾 Backup uploaded: %s (%d bytes)", key, len(data))
		}),
	)
	return sched
}
