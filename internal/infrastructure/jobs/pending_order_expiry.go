package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"homeservice.backend/pkg/logger"
)

// PendingOrderExpirer cancels orders left unpaid for longer than olderThan
type PendingOrderExpirer interface {
	ExpirePendingOrders(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// PendingOrderExpiryJob periodically cancels stale unpaid orders
type PendingOrderExpiryJob struct {
	expirer   PendingOrderExpirer
	timeout   time.Duration
	interval  time.Duration
	batchSize int
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewPendingOrderExpiryJob creates the job. Non-positive settings fall back to defaults.
func NewPendingOrderExpiryJob(expirer PendingOrderExpirer, timeout, interval time.Duration, batchSize int) *PendingOrderExpiryJob {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &PendingOrderExpiryJob{
		expirer:   expirer,
		timeout:   timeout,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called
func (j *PendingOrderExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting pending order expiry job",
		zap.Duration("interval", j.interval),
		zap.Duration("timeout", j.timeout),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Pending order expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Pending order expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredOrders(ctx)
		}
	}
}

// Stop ends Start; calling it more than once is safe
func (j *PendingOrderExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *PendingOrderExpiryJob) processExpiredOrders(ctx context.Context) {
	n, err := j.expirer.ExpirePendingOrders(ctx, j.timeout, j.batchSize)
	if err != nil {
		logger.Error(ctx, "Error expiring pending orders", zap.Int("expired", n), zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Expired pending orders", zap.Int("count", n))
	}
}
