// Package service contains the business logic layer. Services accept
// primitives and domain models, enforce the rules, and return typed
// apperror values; the handler package translates those to HTTP.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/auth"
	"github.com/sakif/codescribe/internal/mail"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

// ResetCodeTTL is how long a password-reset code stays valid.
const ResetCodeTTL = 10 * time.Minute

// AuthService handles registration, login, and the password-reset flow.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	mailer    mail.Mailer
	logger    *slog.Logger

	// now is swappable so expiry tests don't sleep.
	now func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	mailer mail.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

// AuthResult bundles the user and the issued session token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates an account and issues a session token.
// A duplicate email surfaces as a validation error ("User already exists").
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("email", "User already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by email and password.
//
// Unknown email and wrong password return the same apperror.Unauthorized
// so the response cannot be used to probe which addresses are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateSessionToken validates a session token and returns the userID
// it encodes. Thin delegation so callers need only the service package.
func (s *AuthService) ValidateSessionToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

// GetUserByID returns the user for an authenticated request's identity.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetUserByID(ctx, id)
}

// ForgotPassword issues a six-digit reset code, stores it with a
// ResetCodeTTL expiry, and emails it to the account address.
//
// The code is stored before the send so a transient mail failure does not
// invalidate a code the user may still receive on retry. A send failure is
// still reported as an error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("service/auth: generating reset code: %w", err)
	}

	expires := s.now().Add(ResetCodeTTL)
	if err := s.users.SetResetCode(ctx, user.ID, code, expires); err != nil {
		return fmt.Errorf("service/auth: storing reset code: %w", err)
	}

	if err := s.mailer.Send(user.Email, "Your Password Reset Code", mail.ResetCodeBody(code)); err != nil {
		s.logger.Error("failed to send reset code",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/auth: sending reset code: %w", err)
	}

	s.logger.Info("reset code issued", slog.String("userID", user.ID))
	return nil
}

// VerifyResetCode checks that the code matches the one on record and has
// not expired. It does not consume the code.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return apperror.ValidationFailed("code", "email and code are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("code", "invalid request")
		}
		return fmt.Errorf("service/auth: looking up user: %w", err)
	}

	return s.checkResetCode(user, code)
}

// ResetPassword consumes a valid code: it replaces the password and clears
// the stored code in one repository call, so the same code cannot be
// replayed.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" || newPassword == "" {
		return apperror.ValidationFailed("password", "email, code, and new password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("code", "invalid request")
		}
		return fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.checkResetCode(user, code); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}

	if err := s.users.UpdatePasswordAndClearResetCode(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("service/auth: updating password: %w", err)
	}

	s.logger.Info("password reset", slog.String("userID", user.ID))
	return nil
}

func (s *AuthService) checkResetCode(user *model.User, code string) error {
	if user.ResetOTP == nil || user.ResetOTPExpires == nil {
		return apperror.ValidationFailed("code", "invalid request")
	}
	if *user.ResetOTP != code {
		return apperror.ValidationFailed("code", "invalid code")
	}
	if s.now().After(*user.ResetOTPExpires) {
		return apperror.ValidationFailed("code", "code expired")
	}
	return nil
}

// generateResetCode returns a uniformly random six-digit decimal code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
