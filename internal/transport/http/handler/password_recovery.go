package handler

import (
	"net/http"

	"github.com/classroom-accounts/internal/application/account"
	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PasswordRecoveryHandler handles the OTP request and reset steps.
type PasswordRecoveryHandler struct {
	svc account.Service
	log zerolog.Logger
}

func NewPasswordRecoveryHandler(svc account.Service, log zerolog.Logger) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc, log: log}
}

func (h *PasswordRecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		h.request(w, r)
	case "reset":
		h.reset(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *PasswordRecoveryHandler) request(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, h.log, err)
		return
	}
	msg, err := h.svc.IssueOTP(r.Context(), req.Email)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: msg})
}

func (h *PasswordRecoveryHandler) reset(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, h.log, err)
		return
	}
	outcome, err := h.svc.ResetPassword(r.Context(), req)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, resetStatus(outcome), ResetEnvelope{Outcome: outcome.String(), Message: outcome.Message()})
}

func resetStatus(o domain.ResetOutcome) int {
	switch o {
	case domain.ResetSucceeded:
		return http.StatusOK
	case domain.ResetExpired:
		return http.StatusGone
	default:
		return http.StatusUnauthorized
	}
}
