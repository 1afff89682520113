package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/security"
)

// Excludes ambiguous glyphs (0/O, 1/I/L) so codes survive being read
// aloud or hand-copied.
const referralCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const referralCodeLength = 8

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if err := validateRegisterInput(email, input.Password, name, input.RUT); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	referralCode, err := generateReferralCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating referral code")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		RUT:          NormalizeRUT(input.RUT),
		Phone:        input.Phone,
		Role:         enums.UserRoleCustomer,
		ReferralCode: referralCode,
		Newsletter:   input.Newsletter,
		IsActive:     true,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.ReferralCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*input.ReferralCode))
			if code != "" {
				referrer, err := txRepo.FindByReferralCode(ctx, code)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation, "unknown referral code")
					}
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving referral code")
				}
				referredBy := referrer.ReferralCode
				user.ReferredBy = &referredBy
			}
		}

		if _, err := txRepo.Create(ctx, user); err != nil {
			switch {
			case db.IsUniqueViolation(err, "email"):
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			case db.IsUniqueViolation(err, "rut"):
				return pkgerrors.New(pkgerrors.CodeConflict, "rut already registered")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func validateRegisterInput(email, password, name, rut string) error {
	details := map[string]string{}

	if email == "" || !strings.Contains(email, "@") {
		details["email"] = "a valid email is required"
	}
	if len(password) < minPasswordLength {
		details["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if name == "" {
		details["name"] = "name is required"
	}
	if err := ValidateRUT(rut); err != nil {
		details["rut"] = err.Error()
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid registration payload").WithDetails(details)
	}
	return nil
}

func generateReferralCode() (string, error) {
	bytes := make([]byte, referralCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	code := make([]byte, referralCodeLength)
	for i, b := range bytes {
		code[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(code), nil
}
