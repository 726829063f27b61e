package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// authorize fails with FORBIDDEN unless the principal's role grants capability.
func authorize(principal domain.Principal, capability domain.Capability) error {
	if principal.Can(capability) {
		return nil
	}
	return apperrors.NewForbidden(fmt.Sprintf("role %q is not allowed to perform %s", principal.Role, capability))
}

// lookupError turns a missing row into NOT_FOUND with message and maps the rest.
func lookupError(err error, message string, details map[string]any) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFoundMessage(message, details)
	}
	return apperrors.MapError(err)
}

// workflowNotifier publishes workflow events and counts the transition.
type workflowNotifier struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func (n workflowNotifier) notify(ctx context.Context, transition string, event events.Event) {
	n.metrics.RecordTransition(transition)
	if n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.Publish(ctx, event); err != nil && n.logger != nil {
		n.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
