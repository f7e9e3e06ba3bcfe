package http

import (
	"bytes"
	"context"
	"fmt"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classroom-accounts/internal/config"
	"github.com/classroom-accounts/internal/domain"
	jwtinfra "github.com/classroom-accounts/internal/infrastructure/jwt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct{ mock.Mock }

func (m *stubAccounts) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *stubAccounts) IssueOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *stubAccounts) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (domain.ResetOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ResetOutcome), args.Error(1)
}

func (m *stubAccounts) SetApproval(ctx context.Context, accountID string, approved bool) (domain.ApprovalOutcome, error) {
	args := m.Called(ctx, accountID, approved)
	o, _ := args.Get(0).(domain.ApprovalOutcome)
	return o, args.Error(1)
}

func (m *stubAccounts) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *stubAccounts) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *stubAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{AllowedOrigins: []string{"*"}, RateLimitRPS: 0.001, RateLimitBurst: 2}
}

func adminToken(t *testing.T, key *rsa.PrivateKey, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &jwtinfra.Claims{
		AccountID: "admin-1",
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(key)
	require.NoError(t, err)
	return s
}

func newTestRouter(t *testing.T) (http.Handler, *stubAccounts, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc := &stubAccounts{}
	r := NewRouter(ctx, testConfig(), &Deps{
		Accounts: svc,
		Verifier: jwtinfra.NewVerifier(&key.PublicKey),
		Logger:   zerolog.Nop(),
	})
	return r, svc, key
}

func TestRouter_HealthCheck(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "List", mock.Anything)
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	r, _, key := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, key, domain.RoleTeacher))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_AdminCanList(t *testing.T) {
	r, svc, key := newTestRouter(t)
	svc.On("List", mock.Anything).Return([]domain.Account{{AccountID: "a"}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, key, domain.RoleAdmin))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ByUsernameRoute(t *testing.T) {
	r, svc, key := newTestRouter(t)
	svc.On("GetByUsername", mock.Anything, "jdoe").Return(&domain.Account{AccountID: "a", Username: "jdoe"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/by-username/jdoe", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, key, domain.RoleAdmin))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestRouter_RegistrationIsRateLimited(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	svc.On("Register", mock.Anything, mock.Anything).Return(&domain.Account{AccountID: "a"}, nil)
	body := `{"username":"jdoe","email":"jdoe@school.edu","password":"s3cret-pass","role":"STUDENT"}`

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewBufferString(body))
		req.RemoteAddr = "10.0.0.9:4000"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		last = rr.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouter_ResetThrottledDespiteSpoofedForwardedFor(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	svc.On("ResetPassword", mock.Anything, mock.Anything).Return(domain.ResetInvalidOTP, nil)
	body := `{"email":"jdoe@school.edu","otp":"123456","new_password":"s3cret-pass"}`

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/password-recovery/reset", bytes.NewBufferString(body))
		req.RemoteAddr = "10.0.0.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("6.6.6.%d", i))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{
		http.StatusUnauthorized, http.StatusUnauthorized,
		http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_NoVerifierDeniesAdminRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRouter(ctx, testConfig(), &Deps{Accounts: &stubAccounts{}, Logger: zerolog.Nop()})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type failingCheck struct{}

func (failingCheck) Check(context.Context) error { return errors.New("table creating") }

func TestRouter_ReadinessUsesChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRouter(ctx, testConfig(), &Deps{Accounts: &stubAccounts{}, Readiness: failingCheck{}, Logger: zerolog.Nop()})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health-check/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
