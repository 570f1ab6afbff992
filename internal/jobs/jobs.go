// Package jobs runs scheduled maintenance work such as quote expiry.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/metrics"
)

const ExpireQuotesJob = "expire_quotes"

// QuoteExpirer is satisfied by *service.Service.
type QuoteExpirer interface {
	ExpireQuotes(ctx context.Context, asOf time.Time) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	expirer QuoteExpirer
	log     logrus.FieldLogger
	now     func() time.Time
	timeout time.Duration
}

func NewScheduler(expirer QuoteExpirer, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		expirer: expirer,
		log:     log,
		now:     time.Now,
		timeout: time.Minute,
	}
}

// ScheduleExpiry registers the expiry job using a standard cron expression
// or a descriptor such as "@daily".
func (s *Scheduler) ScheduleExpiry(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunExpiry(context.Background()) }); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", spec, err)
	}
	return nil
}

// RunExpiry expires overdue quotes once and records the run.
func (s *Scheduler) RunExpiry(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.expirer.ExpireQuotes(ctx, s.now().UTC())
	metrics.RecordJobRun(ExpireQuotesJob, time.Since(start), err == nil)
	if err != nil {
		s.log.WithError(err).WithField("job", ExpireQuotesJob).Error("job failed")
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"job": ExpireQuotesJob, "expired": n}).Info("job finished")
	return n, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
