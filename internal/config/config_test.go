package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("ADMIN_RECIPIENTS", "")
	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.Equal(t, []string{"admin@example.com"}, cfg.AdminRecipients)
	assert.Equal(t, "dynamo", cfg.AuditBackend)
	assert.Equal(t, "accounts", cfg.DynamoTables.Accounts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("ADMIN_RECIPIENTS", "ops@school.edu, +15550001111 ,")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	cfg := Load()

	assert.Equal(t, 90*time.Second, cfg.OTPTTL)
	assert.Equal(t, []string{"ops@school.edu", "+15550001111"}, cfg.AdminRecipients)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OTP_TTL", "two minutes")
	t.Setenv("BCRYPT_COST", "high")
	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7 ,not-an-ip")
	cfg := Load()

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
	}, cfg.TrustedProxies)
}

func TestLoad_NoTrustedProxiesByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	assert.Empty(t, Load().TrustedProxies)
}
