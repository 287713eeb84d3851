package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicy_EmptyPathKeepsDefaults(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), policy)
	assert.Equal(t, 30, policy.Leave.AnnualQuotaDays)
	assert.Equal(t, int64(10000), policy.Payroll.AbsencePenalty)
}

func TestLoadPolicy_OverridesSelectedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := []byte("payroll:\n  absence_penalty: 12000\n  departure_grace: 2h\nleave:\n  annual_quota_days: 25\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, int64(12000), policy.Payroll.AbsencePenalty)
	assert.Equal(t, 2*time.Hour, policy.Payroll.DepartureGrace)
	assert.Equal(t, 25, policy.Leave.AnnualQuotaDays)
	// untouched fields keep their defaults
	assert.Equal(t, int64(3000), policy.Payroll.LatenessBasePenalty)
	assert.Equal(t, 60*time.Minute, policy.Payroll.LatenessThreshold)
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPolicy_Validate(t *testing.T) {
	policy := DefaultPolicy()
	assert.NoError(t, policy.Validate())

	policy.Leave.AnnualQuotaDays = 0
	assert.Error(t, policy.Validate())

	policy = DefaultPolicy()
	policy.Payroll.AbsencePenalty = -1
	assert.Error(t, policy.Validate())
}

func TestPayrollPolicy_DefaultRulesMatchPayrollDefaults(t *testing.T) {
	rules := DefaultPolicy().Payroll.Rules()
	defaults := payroll.DefaultRules()

	assert.True(t, defaults.AbsencePenalty.Equal(rules.AbsencePenalty))
	assert.True(t, defaults.LatenessBasePenalty.Equal(rules.LatenessBasePenalty))
	assert.True(t, defaults.LatenessHourlyPenalty.Equal(rules.LatenessHourlyPenalty))
	assert.True(t, defaults.UnjustifiedDeparturePenalty.Equal(rules.UnjustifiedDeparturePenalty))
	assert.Equal(t, defaults.LatenessThreshold, rules.LatenessThreshold)
	assert.Equal(t, defaults.DepartureGrace, rules.DepartureGrace)
	assert.Equal(t, defaults.Currency, rules.Currency)
}
