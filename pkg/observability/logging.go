package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/augur/pkg/domain"
)

// LoggingHooks logs run and directive boundaries at info level and every
// mutation at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "ontology", e.OntologyID)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "run_end", "ontology", e.OntologyID, "status", e.Status, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "run_end", "ontology", e.OntologyID, "status", e.Status, "changes", e.Changes)
		},
		OnDirectiveEnd: func(ctx context.Context, e *domain.DirectiveEvent) {
			logger.InfoContext(ctx, "directive_end",
				"ontology", e.OntologyID,
				"directive", e.Directive,
				"kind", e.Kind,
				"candidates", e.Candidates,
				"changes", e.Changes,
				"duration", e.Duration,
			)
		},
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.DebugContext(ctx, "mutation",
				"directive", e.Directive,
				"effect", e.Effect,
				"tuple", e.Tuple.String(),
				"created", e.Created,
			)
		},
	}
}
