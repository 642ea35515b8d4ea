package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// trialApprover is the reviewer name used by dry-run approvals. Its rows are
// throwaway and get swept nightly.
const trialApprover = "dry-run"

// trialRetention is how long dry-run rows survive before the sweep.
const trialRetention = 24 * time.Hour

// StaleStore is any repository that can purge one approver's old rows.
type StaleStore interface {
	PurgeStale(ctx context.Context, approvedBy string, olderThan time.Duration) (int64, error)
}

type Scheduler struct {
	stores map[string]StaleStore
}

func NewScheduler(stores map[string]StaleStore) *Scheduler {
	return &Scheduler{stores: stores}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	//  (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runNightlySweep()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (sweeping dry-run approvals nightly at 12:00AM)")
	c.Start()
}

func (s *Scheduler) runNightlySweep() {
	log.Println("Nightly sweep started (purging stale dry-run approvals)...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var total int64
	for name, store := range s.stores {
		n, err := store.PurgeStale(ctx, trialApprover, trialRetention)
		if err != nil {
			log.Printf("Sweep failed for %s store: %v", name, err)
			continue
		}
		if n > 0 {
			log.Printf("Swept %d stale %s rows", n, name)
		}
		total += n
	}

	log.Printf("Nightly sweep completed (%d rows) at: %s", total, time.Now().Format(time.RFC1123))
}
