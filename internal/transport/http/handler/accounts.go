package handler

import (
	"net/http"

	"github.com/classroom-accounts/internal/application/account"
	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/pkg/id"
	"github.com/classroom-accounts/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AccountHandler serves registration and the admin account endpoints.
type AccountHandler struct {
	svc account.Service
	log zerolog.Logger
}

func NewAccountHandler(svc account.Service, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: log}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountsEnvelope{Count: len(accounts), Data: accounts})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathAccountID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), accountID)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AccountHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// SetStatus approves or rejects a pending registration.
func (h *AccountHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathAccountID(w, r)
	if !ok {
		return
	}
	var req domain.ApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, h.log, err)
		return
	}
	outcome, err := h.svc.SetApproval(r.Context(), accountID, *req.Approved)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	switch o := outcome.(type) {
	case domain.Approved:
		writeJSON(w, http.StatusOK, ApprovalEnvelope{Outcome: "APPROVED", AccountID: o.Account.AccountID, Account: o.Account})
	case domain.Rejected:
		writeJSON(w, http.StatusOK, ApprovalEnvelope{Outcome: "REJECTED", AccountID: o.AccountID})
	}
}

// pathAccountID reads the {id} param. Ids that are not ULIDs cannot exist, so
// they are answered with 404 without touching the store.
func pathAccountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID := chi.URLParam(r, "id")
	if !id.Valid(accountID) {
		writeError(w, http.StatusNotFound, "account not found")
		return "", false
	}
	return accountID, true
}
