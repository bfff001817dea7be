package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// RefreshInput is the input for the geometry refresh workflow.
type RefreshInput struct {
	// Reason is recorded on every geometry event published by the run.
	Reason string
	// BatchSize caps how many routes a single run rebuilds; 0 means all.
	BatchSize int
}

// GeometryRefreshWorkflow rebuilds the stored geometry of every route, one
// activity per route so a single bad route cannot fail the fleet. Failed
// route IDs are collected and reported in the summary event instead of
// aborting the run.
func GeometryRefreshWorkflow(ctx workflow.Context, input RefreshInput) (domain.RefreshSummary, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting geometry refresh", "reason", input.Reason, "batchSize", input.BatchSize)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var ids []string
	if err := workflow.ExecuteActivity(ctx, "ListRouteIDs").Get(ctx, &ids); err != nil {
		return domain.RefreshSummary{}, err
	}
	if input.BatchSize > 0 && len(ids) > input.BatchSize {
		ids = ids[:input.BatchSize]
	}

	summary := domain.RefreshSummary{Total: len(ids), Reason: input.Reason}
	for _, id := range ids {
		if err := workflow.ExecuteActivity(ctx, "RebuildRoute", id, input.Reason).Get(ctx, nil); err != nil {
			logger.Warn("route rebuild failed", "routeID", id, "error", err)
			summary.Failed = append(summary.Failed, id)
			continue
		}
		summary.Rebuilt++
	}
	summary.CompletedAt = workflow.Now(ctx)

	if err := workflow.ExecuteActivity(ctx, "PublishRefreshSummary", summary).Get(ctx, nil); err != nil {
		logger.Warn("summary publish failed", "error", err)
	}

	logger.Info("Geometry refresh finished", "rebuilt", summary.Rebuilt, "failed", len(summary.Failed))
	return summary, nil
}
