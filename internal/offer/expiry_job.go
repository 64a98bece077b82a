package offer

import (
	"context"
	"time"
)

// ExpiryJob is a worker job that sweeps due offers.
type ExpiryJob struct {
	svc       Service
	batchSize int
	now       func() time.Time
}

// NewExpiryJob creates a sweep job over svc.
func NewExpiryJob(svc Service, batchSize int) *ExpiryJob {
	if batchSize <= 0 {
		batchSize = DefaultExpiryBatchSize
	}
	return &ExpiryJob{svc: svc, batchSize: batchSize, now: time.Now}
}

// Process expires due offers in batches until a batch comes back short.
func (j *ExpiryJob) Process(ctx context.Context) error {
	asOf := j.now().UTC()
	for {
		n, err := j.svc.ExpireDue(ctx, asOf, j.batchSize)
		if err != nil {
			return err
		}
		if n < j.batchSize {
			return nil
		}
	}
}
