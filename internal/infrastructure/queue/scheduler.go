package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs registers all periodic jobs.
func (s *Scheduler) RegisterJobs() error {
	return s.registerDeactivateExpiredCouponsJob()
}

// Expired coupons are swept hourly so a closed window stops applying
// within the hour even if nobody touches the coupon through the API.
func (s *Scheduler) registerDeactivateExpiredCouponsJob() error {
	task := asynq.NewTask(shared.TypeDeactivateExpiredCoupons, nil)

	_, err := s.scheduler.Register(
		"0 * * * *", // hourly
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register DeactivateExpiredCoupons job", err)
		return err
	}

	logger.Info("registered DeactivateExpiredCoupons: hourly", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
