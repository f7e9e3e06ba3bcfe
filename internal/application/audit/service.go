package audit

import (
	"context"
	"time"

	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/pkg/id"
	"github.com/rs/zerolog"
)

// Service records audit events. Recording is best-effort: a failing backend
// is logged and does not fail the operation that produced the event.
type Service interface {
	Record(ctx context.Context, e domain.AuditEvent)
}

// eventSink is the append-only backend (DynamoDB table or S3 archive).
type eventSink interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
}

type service struct {
	sink eventSink
	log  zerolog.Logger
}

func NewService(sink eventSink, log zerolog.Logger) Service {
	return &service{sink: sink, log: log.With().Str("component", "audit").Logger()}
}

func (s *service) Record(ctx context.Context, e domain.AuditEvent) {
	if e.EventID == "" {
		e.EventID = id.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := s.sink.Append(ctx, &e); err != nil {
		s.log.Warn().Err(err).
			Str("event_id", e.EventID).
			Str("actor_id", e.ActorID).
			Str("action", string(e.Action)).
			Msg("audit event not recorded")
		return
	}
	s.log.Debug().Str("event_id", e.EventID).Str("action", string(e.Action)).Msg("audit event recorded")
}
