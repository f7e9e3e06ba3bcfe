package domain

// ResetOutcome is the business result of a password reset attempt.
// Expired and InvalidOTP are not errors: the call itself succeeded.
type ResetOutcome int

const (
	ResetSucceeded ResetOutcome = iota
	ResetExpired
	ResetInvalidOTP
)

func (o ResetOutcome) String() string {
	switch o {
	case ResetSucceeded:
		return "SUCCEEDED"
	case ResetExpired:
		return "EXPIRED"
	case ResetInvalidOTP:
		return "INVALID_OTP"
	default:
		return "UNKNOWN"
	}
}

// Message is the human-readable text returned to callers for the outcome.
func (o ResetOutcome) Message() string {
	switch o {
	case ResetSucceeded:
		return "Password reset successfully."
	case ResetExpired:
		return "OTP is expired."
	case ResetInvalidOTP:
		return "Invalid OTP."
	default:
		return ""
	}
}

// ApprovalOutcome is either Approved or Rejected.
type ApprovalOutcome interface {
	approvalOutcome()
}

// Approved carries the account after it was activated.
type Approved struct {
	Account *Account
}

// Rejected carries no account; the stored record is left untouched.
type Rejected struct {
	AccountID string
}

func (Approved) approvalOutcome() {}
func (Rejected) approvalOutcome() {}
