package scheduler

import (
	"github.com/retvizor/invest-backend/pkg/log"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a recurring background task.
type Job interface {
	Run() error
	Name() string
}

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}

// AddJob registers a job with a cron spec ("@every 10m", "0 9 * * MON-FRI", ...).
func (s *Scheduler) AddJob(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job.Run(); err != nil {
			log.Error("job failed",
				zap.String("job", job.Name()),
				zap.Error(err),
			)

			return
		}

		log.Debug("job completed", zap.String("job", job.Name()))
	})
	if err != nil {
		return err
	}

	log.Info("job registered",
		zap.String("job", job.Name()),
		zap.String("spec", spec),
	)

	return nil
}
