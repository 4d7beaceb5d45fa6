// Package janitor garbage-collects expired OTP rows on a schedule. Expiry
// is always enforced at verification time by comparing expires_at, so the
// purge is pure housekeeping: its timing has no effect on correctness.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doccluster/auth-service/internal/metrics"
	"github.com/doccluster/auth-service/internal/repository"
	"github.com/robfig/cron/v3"
)

const purgeTimeout = 30 * time.Second

type Janitor struct {
	otps   repository.OtpRepository
	cron   *cron.Cron
	logger *slog.Logger
}

func New(otps repository.OtpRepository, logger *slog.Logger) *Janitor {
	return &Janitor{
		otps:   otps,
		cron:   cron.New(),
		logger: logger.With("component", "janitor"),
	}
}

// Start schedules the purge every interval minutes and launches the cron
// loop. An interval of 0 disables the janitor.
func (j *Janitor) Start(intervalMin int) error {
	if intervalMin == 0 {
		j.logger.Info("otp purge disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %dm", intervalMin)
	if _, err := j.cron.AddFunc(spec, j.purge); err != nil {
		return fmt.Errorf("schedule otp purge: %w", err)
	}

	j.cron.Start()
	j.logger.Info("otp purge scheduled", "interval_min", intervalMin)
	return nil
}

// Stop halts the cron loop and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	removed, err := j.otps.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("purge expired otps", "error", err)
		return
	}
	if removed > 0 {
		metrics.OtpsPurgedTotal.Add(float64(removed))
		j.logger.Info("purged expired otps", "count", removed)
	}
}
