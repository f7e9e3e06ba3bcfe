package domain

import "time"

// Status is the approval state of an account.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusRejected Status = "REJECTED"
)

// Account is a classroom user record.
// OTPHash and OTPIssuedAt are set and cleared together.
type Account struct {
	AccountID    string     `json:"id" dynamodbav:"account_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	Status       Status     `json:"status" dynamodbav:"status"`
	Approved     bool       `json:"approved" dynamodbav:"approved"`
	OTPHash      *string    `json:"-" dynamodbav:"otp_hash,omitempty"`
	OTPIssuedAt  *time.Time `json:"-" dynamodbav:"otp_issued_at,omitempty"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// HasPendingOTP reports whether an OTP has been issued and not yet consumed.
func (a *Account) HasPendingOTP() bool {
	return a.OTPHash != nil && a.OTPIssuedAt != nil
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=4,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,maxbytes=72"`
}

type ApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}
