package domain

import "time"

type AuditAction string

type AuditModule string

const (
	ActionPasswordChange AuditAction = "PASSWORD_CHANGE"

	ModuleUser AuditModule = "USER"
)

// AuditEvent is an append-only record of a security-relevant change.
type AuditEvent struct {
	EventID    string      `json:"id" dynamodbav:"event_id"`
	ActorID    string      `json:"actor_id" dynamodbav:"actor_id"`
	ActorName  string      `json:"actor_name" dynamodbav:"actor_name"`
	Action     AuditAction `json:"action" dynamodbav:"action"`
	Module     AuditModule `json:"module" dynamodbav:"module"`
	OccurredAt time.Time   `json:"occurred_at" dynamodbav:"occurred_at"`
}
