package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/classroom-accounts/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockAccountSvc) IssueOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockAccountSvc) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (domain.ResetOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ResetOutcome), args.Error(1)
}

func (m *mockAccountSvc) SetApproval(ctx context.Context, accountID string, approved bool) (domain.ApprovalOutcome, error) {
	args := m.Called(ctx, accountID, approved)
	o, _ := args.Get(0).(domain.ApprovalOutcome)
	return o, args.Error(1)
}

func (m *mockAccountSvc) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountSvc) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockAccountSvc) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

// withURLParams injects chi URL params into the request context.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonReq(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}
