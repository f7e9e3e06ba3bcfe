package dynamo

// DynamoDB attribute and index names shared by the repositories and Bootstrap.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	attrAccountID   = "account_id"
	attrUsername    = "username"
	attrEmail       = "email"
	attrPassword    = "password_hash"
	attrOTPHash     = "otp_hash"
	attrOTPIssuedAt = "otp_issued_at"
	attrUpdatedAt   = "updated_at"
	attrUniqueKey   = "unique_key"
	attrEventID     = "event_id"

	indexUsername = "username-index"
	indexEmail    = "email-index"
)
