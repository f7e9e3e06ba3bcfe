package handler

import (
	"encoding/json"
	"net/http"

	"github.com/classroom-accounts/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AccountsEnvelope wraps account list responses.
type AccountsEnvelope struct {
	Count int              `json:"count"`
	Data  []domain.Account `json:"data"`
}

// ResetEnvelope carries a password-reset outcome.
type ResetEnvelope struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

// ApprovalEnvelope carries an approval decision. Account is set only when approved.
type ApprovalEnvelope struct {
	Outcome   string          `json:"outcome"`
	AccountID string          `json:"account_id"`
	Account   *domain.Account `json:"account,omitempty"`
}

// RolesEnvelope lists assignable roles.
type RolesEnvelope struct {
	Roles []string `json:"roles"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
