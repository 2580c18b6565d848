package utils

import (
	"context"
	"coursehub/logger"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named task run on a cron schedule.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// StartScheduler registers jobs and starts the cron runner. Jobs with an empty
// spec are skipped. The caller stops the returned cron on shutdown.
func StartScheduler(jobs ...Job) (*cron.Cron, error) {
	logger.Info("SCHEDULER", "Initializing scheduler...")

	c := cron.New()
	for _, job := range jobs {
		if job.Spec == "" {
			logger.Info("SCHEDULER", "%s disabled", job.Name)
			continue
		}
		job := job
		if _, err := c.AddFunc(job.Spec, func() { runJob(job) }); err != nil {
			return nil, err
		}
		logger.Info("SCHEDULER", "%s scheduled at %q", job.Name, job.Spec)
	}

	c.Start()
	return c, nil
}

func runJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error("SCHEDULER", err, "%s failed", job.Name)
		return
	}
	logger.Info("SCHEDULER", "%s finished in %s", job.Name, time.Since(start))
}
