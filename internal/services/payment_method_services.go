package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/model"
	"github.com/jcarranz97/colony/internal/repository"
)

// MaxPaymentMethodsPerUser caps active payment methods per account.
const MaxPaymentMethodsPerUser = 20

// PaymentMethodDirectory is the payment method store. Implemented by
// repository.PaymentMethodRepository.
type PaymentMethodDirectory interface {
	ListByUser(ctx context.Context, userID uuid.UUID, f repository.PaymentMethodFilter) ([]model.PaymentMethod, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.PaymentMethod, error)
	FindActiveByName(ctx context.Context, userID uuid.UUID, name string) (*model.PaymentMethod, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	Insert(ctx context.Context, pm *model.PaymentMethod) (*model.PaymentMethod, error)
	Update(ctx context.Context, pm *model.PaymentMethod) (*model.PaymentMethod, error)
}

type PaymentMethodService struct {
	Methods PaymentMethodDirectory

	Log zerolog.Logger
}

func NewPaymentMethodService(methods PaymentMethodDirectory, log zerolog.Logger) *PaymentMethodService {
	return &PaymentMethodService{Methods: methods, Log: log}
}

func (s *PaymentMethodService) List(ctx context.Context, userID uuid.UUID, f repository.PaymentMethodFilter) ([]model.PaymentMethod, error) {
	return s.Methods.ListByUser(ctx, userID, f)
}

// Get returns the payment method only if it belongs to userID.
func (s *PaymentMethodService) Get(ctx context.Context, userID, id uuid.UUID) (*model.PaymentMethod, error) {
	pm, err := s.Methods.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if pm == nil {
		return nil, apperr.PaymentMethodNotFound(id.String())
	}
	return pm, nil
}

type CreatePaymentMethodInput struct {
	Name            string
	MethodType      string
	DefaultCurrency string
	Description     *string
}

// Create adds a payment method for the user. The duplicate-name check is
// advisory; the partial unique index decides concurrent creates.
func (s *PaymentMethodService) Create(ctx context.Context, userID uuid.UUID, in CreatePaymentMethodInput) (*model.PaymentMethod, error) {
	name := strings.TrimSpace(in.Name)

	count, err := s.Methods.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= MaxPaymentMethodsPerUser {
		return nil, apperr.PaymentMethodLimit(MaxPaymentMethodsPerUser)
	}

	existing, err := s.Methods.FindActiveByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.PaymentMethodNameExists(name)
	}

	pm := &model.PaymentMethod{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		MethodType:      in.MethodType,
		DefaultCurrency: in.DefaultCurrency,
		Description:     trimDescription(in.Description),
		Active:          true,
	}

	created, err := s.Methods.Insert(ctx, pm)
	if err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("user_id", userID.String()).
		Str("payment_method_id", created.ID.String()).
		Msg("payment method created")
	return created, nil
}

type UpdatePaymentMethodInput struct {
	Name        *string
	Description *string
	Active      *bool
}

func (s *PaymentMethodService) Update(ctx context.Context, userID, id uuid.UUID, in UpdatePaymentMethodInput) (*model.PaymentMethod, error) {
	pm, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, pm.Name) {
			existing, err := s.Methods.FindActiveByName(ctx, userID, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != pm.ID {
				return nil, apperr.PaymentMethodNameExists(name)
			}
		}
		pm.Name = name
	}
	if in.Description != nil {
		pm.Description = trimDescription(in.Description)
	}
	if in.Active != nil {
		pm.Active = *in.Active
	}

	updated, err := s.Methods.Update(ctx, pm)
	if err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("payment_method_id", updated.ID.String()).
		Msg("payment method updated")
	return updated, nil
}

// Deactivate soft-deletes the payment method.
func (s *PaymentMethodService) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	pm, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	pm.Active = false
	if _, err := s.Methods.Update(ctx, pm); err != nil {
		return err
	}

	s.Log.Info().
		Str("payment_method_id", pm.ID.String()).
		Msg("payment method deactivated")
	return nil
}

// trimDescription normalizes an optional description, turning blank
// strings into nil.
func trimDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	d := strings.TrimSpace(*desc)
	if d == "" {
		return nil
	}
	return &d
}
