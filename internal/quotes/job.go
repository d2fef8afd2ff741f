package quotes

import (
	"context"
	"time"
)

const refreshTimeout = 5 * time.Minute

// RefreshJob adapts the reconciler to the scheduler.
type RefreshJob struct {
	reconciler *Reconciler
}

func NewRefreshJob(reconciler *Reconciler) *RefreshJob {
	return &RefreshJob{reconciler: reconciler}
}

func (j *RefreshJob) Name() string {
	return "quotes-refresh"
}

func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	return j.reconciler.ReconcileAll(ctx)
}
