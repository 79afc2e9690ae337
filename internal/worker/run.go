package worker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"guardian/internal/amqp"
)

// Run drives notification consumption and, when a report worker is
// configured, the periodic report export. It blocks until ctx is done or
// either loop fails.
func Run(ctx context.Context, client *amqp.Client, nw *NotifyWorker, rw *ReportWorker) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeNotifications(ctx, nw.Deliver)
	})

	if rw != nil {
		g.Go(func() error {
			return rw.RunPeriodic(ctx)
		})
	}

	return g.Wait()
}
