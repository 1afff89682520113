package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/internal/loyalty"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

// Service exposes profile, address, payment method, and admin user
// management operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error)

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	ListPaymentCards(ctx context.Context, userID uuid.UUID) ([]models.PaymentCard, error)
	AddPaymentCard(ctx context.Context, userID uuid.UUID, input CardInput) (*models.PaymentCard, error)
	DeletePaymentCard(ctx context.Context, userID, cardID uuid.UUID) error

	ListUsers(ctx context.Context, params pagination.Params) ([]models.User, string, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error
	OverridePoints(ctx context.Context, input OverridePointsInput) (*Profile, error)
	RecomputeLevel(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Profile is the read model the profile endpoints return.
type Profile struct {
	User          models.User        `json:"user"`
	IsDuocStudent bool               `json:"is_duoc_student"`
	LoyaltyLevel  enums.LoyaltyLevel `json:"loyalty_level"`
	PointsToNext  int                `json:"points_to_next_level"`
}

// UpdateProfileInput holds optional profile mutations.
type UpdateProfileInput struct {
	Name       *string
	Phone      *string
	Newsletter *bool
}

// AddressInput is the payload for creating or replacing an address.
type AddressInput struct {
	Name       string
	Street     string
	Number     string
	Apartment  *string
	City       string
	Commune    *string
	Region     string
	PostalCode *string
	Phone      string
	IsDefault  bool
}

// CardInput is the payload for saving a masked payment method.
type CardInput struct {
	Method    enums.PaymentMethod
	Last4     *string
	Holder    *string
	Brand     *string
	Bank      *string
	Account   *string
	IsDefault bool
}

// OverridePointsInput captures an admin balance override. The ledger
// keeps the audit trail; Reason lands in the entry metadata.
type OverridePointsInput struct {
	AdminID    uuid.UUID
	UserID     uuid.UUID
	NewBalance int
	Reason     string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      *Repository
	addresses *AddressRepository
	cards     *CardRepository
	loyalty   loyalty.Service
	dbClient  txRunner
}

// NewService constructs a users service instance.
func NewService(repo *Repository, addresses *AddressRepository, cards *CardRepository, loyaltySvc loyalty.Service, dbClient txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if cards == nil {
		return nil, fmt.Errorf("card repository required")
	}
	if loyaltySvc == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		addresses: addresses,
		cards:     cards,
		loyalty:   loyaltySvc,
		dbClient:  dbClient,
	}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildProfile(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Newsletter != nil {
		user.Newsletter = *input.Newsletter
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return buildProfile(user), nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return rows, nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		Street:     strings.TrimSpace(input.Street),
		Number:     strings.TrimSpace(input.Number),
		Apartment:  input.Apartment,
		City:       strings.TrimSpace(input.City),
		Commune:    input.Commune,
		Region:     strings.TrimSpace(input.Region),
		PostalCode: input.PostalCode,
		Phone:      strings.TrimSpace(input.Phone),
		IsDefault:  input.IsDefault,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.addresses.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, address)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return address, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.addresses.WithTx(tx)

		address, err := repo.FindByID(ctx, userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return err
		}

		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}

		address.Name = strings.TrimSpace(input.Name)
		address.Street = strings.TrimSpace(input.Street)
		address.Number = strings.TrimSpace(input.Number)
		address.Apartment = input.Apartment
		address.City = strings.TrimSpace(input.City)
		address.Commune = input.Commune
		address.Region = strings.TrimSpace(input.Region)
		address.PostalCode = input.PostalCode
		address.Phone = strings.TrimSpace(input.Phone)
		address.IsDefault = input.IsDefault

		if err := repo.Save(ctx, address); err != nil {
			return err
		}
		updated = address
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
	}
	return updated, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.addresses.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	return nil
}

func (s *service) ListPaymentCards(ctx context.Context, userID uuid.UUID) ([]models.PaymentCard, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payment methods")
	}
	return rows, nil
}

func (s *service) AddPaymentCard(ctx context.Context, userID uuid.UUID, input CardInput) (*models.PaymentCard, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.Last4 != nil && len(*input.Last4) != 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last4 must be exactly four digits")
	}

	card := &models.PaymentCard{
		UserID:    userID,
		Method:    input.Method,
		Last4:     input.Last4,
		Holder:    input.Holder,
		Brand:     input.Brand,
		Bank:      input.Bank,
		Account:   input.Account,
		IsDefault: input.IsDefault,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.cards.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, card)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment method")
	}
	return card, nil
}

func (s *service) DeletePaymentCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if err := s.cards.Delete(ctx, userID, cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete payment method")
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) ([]models.User, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set user active")
	}
	return nil
}

// OverridePoints sets the user's balance to an absolute value. The
// delta is written to the ledger as an admin adjustment and the loyalty
// level is recomputed from the new balance, all in one transaction.
func (s *service) OverridePoints(ctx context.Context, input OverridePointsInput) (*Profile, error) {
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.NewBalance < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "balance cannot be negative")
	}

	var profile *Profile
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByIDForUpdate(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return err
		}

		delta := input.NewBalance - user.Points
		if delta != 0 {
			metadata, err := json.Marshal(map[string]string{
				"admin_id": input.AdminID.String(),
				"reason":   strings.TrimSpace(input.Reason),
			})
			if err != nil {
				return err
			}
			if _, err := s.loyalty.WithTx(tx).RecordEntry(ctx, loyalty.RecordEntryInput{
				UserID:       user.ID,
				Type:         enums.LedgerEntryTypeAdminAdjustment,
				Delta:        delta,
				BalanceAfter: input.NewBalance,
				Metadata:     metadata,
			}); err != nil {
				return err
			}
		}

		level := loyalty.LevelFor(input.NewBalance)
		if err := repo.UpdatePointsAndLevel(ctx, user.ID, input.NewBalance, level); err != nil {
			return err
		}

		user.Points = input.NewBalance
		user.LoyaltyLevel = level
		profile = buildProfile(user)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "override points")
	}
	return profile, nil
}

// RecomputeLevel re-derives the loyalty level from the stored balance.
// The loyalty audit job uses it to repair drift; it reports whether a
// write happened.
func (s *service) RecomputeLevel(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	level := loyalty.LevelFor(user.Points)
	if level == user.LoyaltyLevel {
		return false, nil
	}
	if err := s.repo.UpdatePointsAndLevel(ctx, userID, user.Points, level); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute level")
	}
	return true, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func buildProfile(user *models.User) *Profile {
	return &Profile{
		User:          *user,
		IsDuocStudent: user.IsDuocStudent(),
		LoyaltyLevel:  user.LoyaltyLevel,
		PointsToNext:  loyalty.PointsToNext(user.Points),
	}
}

func validateAddressInput(input AddressInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address name is required")
	}
	if strings.TrimSpace(input.Street) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "street is required")
	}
	if strings.TrimSpace(input.Number) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "street number is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(input.Region) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "region is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact phone is required")
	}
	return nil
}
