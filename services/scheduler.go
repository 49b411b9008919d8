// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// claimRetentionDays: claim records only matter for the current day's
// duplicate check, 90 days keeps plenty of audit history.
const claimRetentionDays = 90

// StartMaintenanceScheduler runs the periodic ledger housekeeping:
// silent streak lapses and claim-record pruning.
func (s *ClaimService) StartMaintenanceScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: zero out streaks whose owners missed a day
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			lapsed, err := s.LapseStreaks(time.Now())
			if err != nil {
				log.Printf("[Scheduler] Streak lapse failed: %v", err)
				return
			}
			if lapsed > 0 {
				log.Printf("💤 Reset %d lapsed streak(s)", lapsed)
			}
		}),
	)

	// Every 24h: prune claim records past the retention window
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			pruned, err := s.PruneClaims(time.Now(), claimRetentionDays)
			if err != nil {
				log.Printf("[Scheduler] Claim prune failed: %v", err)
				return
			}
			if pruned > 0 {
				log.Printf("🧹 Pruned %d claim record(s) older than %d days", pruned, claimRetentionDays)
			}
		}),
	)
}
