// services/scheduler.go
package services

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// StartResetScheduler regenerates the lottery book at the first moment
// of every month. Singleton mode keeps a slow generation from being
// re-entered by the next fire; generator failures are logged and left
// to the operator (an external supervisor may retrigger via the admin
// regenerate endpoint).
func (s *LotteryService) StartResetScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] failed to init: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.CronJob("0 0 1 * *", false),
		gocron.NewTask(func() {
			log.Println("🎰 Monthly lottery book reset starting...")
			book, err := s.GenerateNewBook()
			if err != nil {
				log.Printf("[Scheduler] book reset failed: %v", err)
				return
			}
			log.Printf("✅ Monthly lottery book reset complete: %s", book.ID)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to register reset job: %v", err)
		return
	}

	sched.Start()
}
