package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/pkg/credential"
	"github.com/classroom-accounts/internal/pkg/otp"
	"github.com/classroom-accounts/internal/pkg/validate"
	"github.com/rs/zerolog"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldStatus      = "status"
	fieldApproved    = "approved"
	fieldOTPHash     = "otp_hash"
	fieldOTPIssuedAt = "otp_issued_at"
)

const (
	subjectReviewRequest = "Digital Classroom Registration"
	subjectOTP           = "Digital Classroom System OTP"
	subjectApproved      = "Account Approved"
	subjectRejected      = "Registration Rejected"

	msgOTPSent = "OTP has been sent to the given email."
)

// DefaultOTPTTL is how long an issued code stays valid.
const DefaultOTPTTL = 2 * time.Minute

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	IssueOTP(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (domain.ResetOutcome, error)
	SetApproval(ctx context.Context, accountID string, approved bool) (domain.ApprovalOutcome, error)
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type accountStore interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	// ConsumeOTP replaces the password hash and clears the OTP fields, but
	// only while the stored otp_hash still equals expectedOTPHash.
	ConsumeOTP(ctx context.Context, accountID, expectedOTPHash, newPasswordHash string) error
	ListAll(ctx context.Context) ([]domain.Account, error)
}

type notifier interface {
	Send(ctx context.Context, recipient, subject, body string)
}

type auditRecorder interface {
	Record(ctx context.Context, e domain.AuditEvent)
}

type service struct {
	store           accountStore
	hasher          credential.Hasher
	notifier        notifier
	audit           auditRecorder
	adminRecipients []string
	otpTTL          time.Duration
	now             func() time.Time
	log             zerolog.Logger
}

type ServiceDeps struct {
	Store    accountStore
	Hasher   credential.Hasher
	Notifier notifier
	Audit    auditRecorder
	// AdminRecipients receive the review notice for every new registration.
	AdminRecipients []string
	OTPTTL          time.Duration
	Now             func() time.Time
	Logger          zerolog.Logger
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:           deps.Store,
		hasher:          deps.Hasher,
		notifier:        deps.Notifier,
		audit:           deps.Audit,
		adminRecipients: deps.AdminRecipients,
		otpTTL:          deps.OTPTTL,
		now:             deps.Now,
		log:             deps.Logger.With().Str("component", "account").Logger(),
	}
	if s.otpTTL <= 0 {
		s.otpTTL = DefaultOTPTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	s.log.Info().Str("username", req.Username).Msg("registration attempt")

	taken, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username already exists: %w", domain.ErrConflict)
	}
	taken, err = s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	a := &domain.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       domain.StatusPending,
		Approved:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", a.AccountID).Str("username", a.Username).Msg("account registered")

	body := fmt.Sprintf("Please approve the following Digital Classroom registration:\n\nUsername: %s\nRole: %s\n",
		a.Username, a.Role)
	for _, r := range s.adminRecipients {
		s.notifier.Send(ctx, r, subjectReviewRequest, body)
	}
	return a, nil
}

func (s *service) IssueOTP(ctx context.Context, email string) (string, error) {
	a, err := s.byEmail(ctx, email)
	if err != nil {
		return "", err
	}
	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", err
	}
	issuedAt := s.now().UTC()
	if err := s.store.Update(ctx, a.AccountID, map[string]interface{}{
		fieldOTPHash:     hash,
		fieldOTPIssuedAt: issuedAt,
	}); err != nil {
		return "", err
	}
	s.log.Info().Str("account_id", a.AccountID).Msg("otp issued")

	body := fmt.Sprintf("Your OTP is: %s\nThis OTP is valid for %s.", code, humanDuration(s.otpTTL))
	s.notifier.Send(ctx, a.Email, subjectOTP, body)
	return msgOTPSent, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (domain.ResetOutcome, error) {
	if err := validate.Struct(req); err != nil {
		return 0, err
	}
	found, err := s.byEmail(ctx, req.Email)
	if err != nil {
		return 0, err
	}
	// The email index may lag a fresh IssueOTP; read the OTP state from the table.
	a, err := s.store.Get(ctx, found.AccountID)
	if err != nil {
		return 0, err
	}
	if !a.HasPendingOTP() {
		s.log.Info().Str("account_id", a.AccountID).Msg("reset attempted without a pending otp")
		return domain.ResetInvalidOTP, nil
	}
	if s.now().After(a.OTPIssuedAt.Add(s.otpTTL)) {
		s.log.Info().Str("account_id", a.AccountID).Msg("reset attempted with expired otp")
		return domain.ResetExpired, nil
	}
	if !s.hasher.Verify(req.OTP, *a.OTPHash) {
		s.log.Info().Str("account_id", a.AccountID).Msg("reset attempted with invalid otp")
		return domain.ResetInvalidOTP, nil
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return 0, err
	}
	if err := s.store.ConsumeOTP(ctx, a.AccountID, *a.OTPHash, hash); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Consumed or reissued between our read and write.
			s.log.Info().Str("account_id", a.AccountID).Msg("otp changed during reset")
			return domain.ResetInvalidOTP, nil
		}
		return 0, err
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:    a.AccountID,
		ActorName:  a.Username,
		Action:     domain.ActionPasswordChange,
		Module:     domain.ModuleUser,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("account_id", a.AccountID).Msg("password reset")
	return domain.ResetSucceeded, nil
}

func (s *service) SetApproval(ctx context.Context, accountID string, approved bool) (domain.ApprovalOutcome, error) {
	a, err := s.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !approved {
		s.log.Warn().Str("account_id", a.AccountID).Str("username", a.Username).Msg("admin rejected registration")
		s.notifier.Send(ctx, a.Email, subjectRejected, "Sorry! Your registration request has been rejected.")
		return domain.Rejected{AccountID: a.AccountID}, nil
	}

	if err := s.store.Update(ctx, a.AccountID, map[string]interface{}{
		fieldStatus:   domain.StatusActive,
		fieldApproved: true,
	}); err != nil {
		return nil, err
	}
	updated, err := s.store.Get(ctx, a.AccountID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", updated.AccountID).Str("username", updated.Username).Msg("admin approved registration")
	s.notifier.Send(ctx, updated.Email, subjectApproved, "Your account has been approved. You can now log in.")
	return domain.Approved{Account: updated}, nil
}

// List returns every account. An empty store is reported as ErrNotFound.
func (s *service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts found: %w", domain.ErrNotFound)
	}
	return accounts, nil
}

func (s *service) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.store.Get(ctx, accountID)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.store.GetByUsername(ctx, username)
}

func (s *service) byEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid email address: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func humanDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	}
	return fmt.Sprintf("%d seconds", int(d/time.Second))
}
