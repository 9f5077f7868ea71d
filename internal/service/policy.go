package service

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"simple-bank-ledger/config"
	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Field names reported in registration validation errors.
const (
	FieldFullName       = "full_name"
	FieldUsername       = "username"
	FieldPassword       = "password"
	FieldInitialDeposit = "initial_deposit"
)

// RegistrationPolicy validates registration input. It is built from
// configuration so deployments can tighten or relax the rules.
type RegistrationPolicy struct {
	MinDeposit               decimal.Decimal
	MaxDeposit               decimal.Decimal
	MinPasswordLength        int
	RequireMixedCaseAndDigit bool

	usernamePattern   *regexp.Regexp
	usernameMinLength int
	usernameMaxLength int
	fullNamePattern   *regexp.Regexp
	fullNameMinLength int
	fullNameMaxLength int
}

// NewRegistrationPolicy compiles the configured policy. maxDeposit caps the
// initial deposit and is normally the ledger's maximum amount.
func NewRegistrationPolicy(cfg config.PolicyConfig, maxDeposit decimal.Decimal) (*RegistrationPolicy, error) {
	minDeposit, err := decimal.NewFromString(cfg.MinDeposit)
	if err != nil {
		return nil, fmt.Errorf("policy.min_deposit: %w", err)
	}
	if minDeposit.IsNegative() {
		return nil, fmt.Errorf("policy.min_deposit must not be negative")
	}
	if minDeposit.GreaterThan(maxDeposit) {
		return nil, fmt.Errorf("policy.min_deposit must not exceed %s", maxDeposit.String())
	}

	usernamePattern, err := regexp.Compile(cfg.UsernamePattern)
	if err != nil {
		return nil, fmt.Errorf("policy.username_pattern: %w", err)
	}
	fullNamePattern, err := regexp.Compile(cfg.FullNamePattern)
	if err != nil {
		return nil, fmt.Errorf("policy.full_name_pattern: %w", err)
	}

	return &RegistrationPolicy{
		MinDeposit:               minDeposit,
		MaxDeposit:               maxDeposit,
		MinPasswordLength:        cfg.MinPasswordLength,
		RequireMixedCaseAndDigit: cfg.RequireMixedCaseAndDigit,
		usernamePattern:          usernamePattern,
		usernameMinLength:        cfg.UsernameMinLength,
		usernameMaxLength:        cfg.UsernameMaxLength,
		fullNamePattern:          fullNamePattern,
		fullNameMinLength:        cfg.FullNameMinLength,
		fullNameMaxLength:        cfg.FullNameMaxLength,
	}, nil
}

// Validate checks every field in order and returns the first violation.
func (p *RegistrationPolicy) Validate(req ports.RegisterRequest) error {
	if err := p.ValidateFullName(req.FullName); err != nil {
		return err
	}
	if err := p.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := p.ValidatePassword(req.Password); err != nil {
		return err
	}
	return p.ValidateInitialDeposit(req.InitialDeposit)
}

func (p *RegistrationPolicy) ValidateFullName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < p.fullNameMinLength || n > p.fullNameMaxLength {
		return apperror.ErrValidation(FieldFullName,
			fmt.Sprintf("Full name must be between %d and %d characters", p.fullNameMinLength, p.fullNameMaxLength))
	}
	if !p.fullNamePattern.MatchString(name) {
		return apperror.ErrValidation(FieldFullName, "Full name can only contain letters and spaces")
	}
	return nil
}

func (p *RegistrationPolicy) ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < p.usernameMinLength || n > p.usernameMaxLength {
		return apperror.ErrValidation(FieldUsername,
			fmt.Sprintf("Username must be between %d and %d characters", p.usernameMinLength, p.usernameMaxLength))
	}
	if !p.usernamePattern.MatchString(username) {
		return apperror.ErrValidation(FieldUsername, "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

func (p *RegistrationPolicy) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < p.MinPasswordLength {
		return apperror.ErrValidation(FieldPassword,
			fmt.Sprintf("Password must be at least %d characters", p.MinPasswordLength))
	}
	if !p.RequireMixedCaseAndDigit {
		return nil
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !lower:
		return apperror.ErrValidation(FieldPassword, "Password must contain at least one lowercase letter")
	case !upper:
		return apperror.ErrValidation(FieldPassword, "Password must contain at least one uppercase letter")
	case !digit:
		return apperror.ErrValidation(FieldPassword, "Password must contain at least one digit")
	}
	return nil
}

func (p *RegistrationPolicy) ValidateInitialDeposit(amount decimal.Decimal) error {
	if !domain.AmountExponentInRange(amount) {
		return apperror.ErrValidation(FieldInitialDeposit, "Initial deposit is out of range")
	}
	if amount.LessThan(p.MinDeposit) {
		return apperror.ErrValidation(FieldInitialDeposit,
			fmt.Sprintf("Initial deposit must be at least %s", p.MinDeposit.String()))
	}
	if amount.GreaterThan(p.MaxDeposit) {
		return apperror.ErrValidation(FieldInitialDeposit,
			fmt.Sprintf("Initial deposit must not exceed %s", p.MaxDeposit.String()))
	}
	return nil
}
