// Package worker runs background jobs against the ledger store.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/storage"
)

// Materializer turns due subscriptions into ordinary transactions.
type Materializer struct {
	store   storage.SubscriptionStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMaterializer creates a Materializer.
func NewMaterializer(store storage.SubscriptionStore, m *metrics.Metrics, logger *slog.Logger) *Materializer {
	return &Materializer{store: store, metrics: m, logger: logger}
}

// Run materializes every charge due on or before asOf's day and returns the
// number of transactions stored. A failing subscription is logged and
// skipped; charge IDs are deterministic, so the next run retries it safely.
func (m *Materializer) Run(ctx context.Context, asOf time.Time) (int, error) {
	due, err := m.store.ListDueSubscriptions(ctx, calculator.EndOfDay(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	m.logger.InfoContext(ctx, "Materializing subscriptions",
		"due", len(due),
		"as_of", asOf.Format("2006-01-02"),
	)

	total := 0
	for _, sub := range due {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		out := calculator.Materialize(sub, asOf)
		if len(out.Transactions) == 0 {
			continue
		}
		stored, err := m.store.RecordCharges(ctx, sub.ID, out.Transactions, out.NextPaymentDate)
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to record subscription charges",
				"subscription_id", sub.ID,
				"project_id", sub.ProjectID,
				"error", err,
			)
			continue
		}

		total += stored
		m.metrics.MaterializedCharges.Add(float64(stored))
		m.logger.InfoContext(ctx, "Subscription charged",
			"subscription_id", sub.ID,
			"project_id", sub.ProjectID,
			"charges", stored,
			"next_payment_date", out.NextPaymentDate.Format("2006-01-02"),
		)
	}
	return total, nil
}

// Start runs once immediately and then on every tick until ctx is done.
func (m *Materializer) Start(ctx context.Context, interval time.Duration) error {
	m.runLogged(ctx, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Materializer stopped")
			return nil
		case now := <-ticker.C:
			m.runLogged(ctx, now)
		}
	}
}

func (m *Materializer) runLogged(ctx context.Context, now time.Time) {
	count, err := m.Run(ctx, now.UTC())
	if err != nil {
		if ctx.Err() == nil {
			m.logger.ErrorContext(ctx, "Materialization failed", "error", err)
		}
		return
	}
	m.logger.DebugContext(ctx, "Materialization complete", "charges", count)
}
