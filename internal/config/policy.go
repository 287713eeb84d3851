package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Policy holds the payroll and leave numbers HR may tune without a rebuild.
type Policy struct {
	Payroll PayrollPolicy `yaml:"payroll"`
	Leave   LeavePolicy   `yaml:"leave"`
}

type PayrollPolicy struct {
	AbsencePenalty          int64         `yaml:"absence_penalty"`
	LatenessThreshold       time.Duration `yaml:"lateness_threshold"`
	LatenessBasePenalty     int64         `yaml:"lateness_base_penalty"`
	LatenessHourlyPenalty   int64         `yaml:"lateness_hourly_penalty"`
	DepartureGrace          time.Duration `yaml:"departure_grace"`
	UnjustifiedDepartureFee int64         `yaml:"unjustified_departure_penalty"`
	Currency                string        `yaml:"currency"`
}

type LeavePolicy struct {
	AnnualQuotaDays int `yaml:"annual_quota_days"`
}

// DefaultPolicy returns the rules applied when no policy file is configured.
func DefaultPolicy() Policy {
	return Policy{
		Payroll: PayrollPolicy{
			AbsencePenalty:          10000,
			LatenessThreshold:       60 * time.Minute,
			LatenessBasePenalty:     3000,
			LatenessHourlyPenalty:   1500,
			DepartureGrace:          3 * time.Hour,
			UnjustifiedDepartureFee: 7000,
			Currency:                "Ar",
		},
		Leave: LeavePolicy{
			AnnualQuotaDays: 30,
		},
	}
}

// LoadPolicy reads a YAML policy file over the defaults. An empty path keeps the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy file: %w", err)
	}
	return policy, nil
}

func (p Policy) Validate() error {
	if p.Payroll.AbsencePenalty < 0 || p.Payroll.LatenessBasePenalty < 0 ||
		p.Payroll.LatenessHourlyPenalty < 0 || p.Payroll.UnjustifiedDepartureFee < 0 {
		return fmt.Errorf("payroll penalties must not be negative")
	}
	if p.Payroll.LatenessThreshold <= 0 {
		return fmt.Errorf("payroll lateness_threshold must be positive")
	}
	if p.Payroll.DepartureGrace < 0 {
		return fmt.Errorf("payroll departure_grace must not be negative")
	}
	if p.Leave.AnnualQuotaDays <= 0 {
		return fmt.Errorf("leave annual_quota_days must be positive")
	}
	return nil
}

// Rules converts the policy into the amounts used by the salary computation.
func (p PayrollPolicy) Rules() payroll.Rules {
	return payroll.Rules{
		AbsencePenalty:              decimal.NewFromInt(p.AbsencePenalty),
		LatenessThreshold:           p.LatenessThreshold,
		LatenessBasePenalty:         decimal.NewFromInt(p.LatenessBasePenalty),
		LatenessHourlyPenalty:       decimal.NewFromInt(p.LatenessHourlyPenalty),
		DepartureGrace:              p.DepartureGrace,
		UnjustifiedDeparturePenalty: decimal.NewFromInt(p.UnjustifiedDepartureFee),
		Currency:                    p.Currency,
	}
}
