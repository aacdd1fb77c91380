package worker

import (
	"context"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CategoryCountWorker periodically recomputes each category's opportunity
// count from the opportunities themselves. Incremental adjustments made by
// the usecases can drift when a write fails halfway; this loop repairs them.
//
// Only one server instance is expected to run it.
type CategoryCountWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCategoryCountWorker creates a new worker for reconciling category counts
func NewCategoryCountWorker(repo interfaces.Repository, interval time.Duration) *CategoryCountWorker {
	return &CategoryCountWorker{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background reconciliation loop without blocking
func (w *CategoryCountWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Category count worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CategoryCountWorker) Stop() {
	logging.Default().Info("Category count worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Category count worker stopped")
}

func (w *CategoryCountWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if _, err := w.Reconcile(ctx); err != nil {
		logging.Default().Error("Initial category count reconciliation failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Reconcile(ctx); err != nil {
				logging.Default().Error("Category count reconciliation failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Category count worker context cancelled")
			return
		}
	}
}

// Reconcile runs a single cycle and returns the number of categories whose
// stored count was corrected.
//
// Counts are read first and written later with SetCount, without a lock
// around the pair. An AdjustCount that lands between the read and the
// SetCount for the same category is overwritten, so that category stays
// off by the adjustment until the next cycle corrects it.
func (w *CategoryCountWorker) Reconcile(ctx context.Context) (int, error) {
	startTime := time.Now()

	categories, err := w.repo.Category().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list categories")
	}

	counts, err := w.repo.Opportunity().CountByCategory(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count opportunities")
	}

	fixed := 0
	for _, c := range categories {
		actual := counts[c.ID]
		if c.Count == actual {
			continue
		}
		if err := w.repo.Category().SetCount(ctx, c.ID, actual); err != nil {
			return fixed, goerr.Wrap(err, "failed to set category count",
				goerr.V("category_id", c.ID), goerr.V("count", actual))
		}
		logging.Default().Info("Corrected category count",
			"category_id", c.ID,
			"stored", c.Count,
			"actual", actual)
		fixed++
	}

	logging.Default().Debug("Category count reconciliation completed",
		"categories", len(categories),
		"fixed", fixed,
		"duration", time.Since(startTime).String())

	return fixed, nil
}
