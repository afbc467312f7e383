package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/model"
	"github.com/jcarranz97/colony/internal/security"
)

// UserDirectory is the user store the auth service operates against.
// Implemented by repository.UserRepository.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Insert(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
}

type AuthService struct {
	Users    UserDirectory
	Hasher   *security.PasswordHasher
	Codec    *security.TokenCodec
	TokenTTL time.Duration

	Log zerolog.Logger
}

func NewAuthService(users UserDirectory, hasher *security.PasswordHasher, codec *security.TokenCodec, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Hasher:   hasher,
		Codec:    codec,
		TokenTTL: tokenTTL,
		Log:      log,
	}
}

type RegisterInput struct {
	Email             string
	Password          string
	FirstName         *string
	LastName          *string
	PreferredCurrency string
	Locale            string
}

// Register creates a new active user. The email existence check is
// advisory; the unique index on the store decides races between
// concurrent registrations and the violation comes back as the same
// USER_ALREADY_EXISTS failure.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	existing, err := s.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.UserAlreadyExists(in.Email)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	currency := in.PreferredCurrency
	if currency == "" {
		currency = model.CurrencyUSD
	}
	locale := in.Locale
	if locale == "" {
		locale = "en-US"
	}

	user := &model.User{
		ID:                uuid.New(),
		Email:             in.Email,
		PasswordHash:      hash,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		PreferredCurrency: currency,
		Locale:            locale,
		Active:            true,
	}

	created, err := s.Users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("user_id", created.ID.String()).Msg("user registered")
	return created, nil
}

// Authenticate verifies email + password against the store. Unknown
// email, inactive account and wrong password all fail with the same
// INVALID_CREDENTIALS error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperr.InvalidCredentials()
	}
	if !s.Hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		if err := s.upgradeHash(ctx, user, password); err != nil {
			// the login itself succeeded, keep the old hash
			s.Log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("password hash upgrade failed")
		}
	}
	return user, nil
}

func (s *AuthService) upgradeHash(ctx context.Context, user *model.User, password string) error {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	_, err = s.Users.Update(ctx, user)
	return err
}

// ChangePassword replaces the user's password after re-verifying the
// current one. The minimum-length policy is enforced at the request
// boundary, not here.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, currentPassword, newPassword string) (*model.User, error) {
	if !s.Hasher.Verify(currentPassword, user.PasswordHash) {
		return nil, apperr.IncorrectPassword()
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	updated, err := s.Users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("user_id", user.ID.String()).Msg("password changed")
	return updated, nil
}

type UpdateProfileInput struct {
	FirstName         *string
	LastName          *string
	PreferredCurrency *string
	Locale            *string
}

// UpdateProfile changes display fields only; identity and credentials
// are untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, in UpdateProfileInput) (*model.User, error) {
	if in.FirstName != nil {
		user.FirstName = in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.PreferredCurrency != nil {
		user.PreferredCurrency = *in.PreferredCurrency
	}
	if in.Locale != nil {
		user.Locale = *in.Locale
	}
	return s.Users.Update(ctx, user)
}

// Deactivate soft-deletes the account. Existing tokens keep verifying
// but the auth gate rejects inactive users with 403.
func (s *AuthService) Deactivate(ctx context.Context, user *model.User) error {
	user.Active = false
	if _, err := s.Users.Update(ctx, user); err != nil {
		return err
	}
	s.Log.Info().Str("user_id", user.ID.String()).Msg("user deactivated")
	return nil
}

// IssueSession returns a transport-ready access token for the user with
// the service's configured lifetime.
func (s *AuthService) IssueSession(user *model.User) (*model.Token, error) {
	token, err := s.Codec.Issue(user.Email, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &model.Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.TokenTTL.Seconds()),
	}, nil
}
