package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/auth"
	"github.com/sakif/codescribe/internal/model"
)

// mockUserRepo implements repository.UserRepository in memory.
type mockUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.Conflict("user", user.Email)
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) SetResetCode(_ context.Context, userID, code string, expires time.Time) error {
	for _, user := range m.byEmail {
		if user.ID == userID {
			user.ResetOTP = &code
			user.ResetOTPExpires = &expires
			return nil
		}
	}
	return apperror.NotFound("user", userID)
}

func (m *mockUserRepo) UpdatePasswordAndClearResetCode(_ context.Context, userID, passwordHash string) error {
	for _, user := range m.byEmail {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			user.ResetOTP = nil
			user.ResetOTPExpires = nil
			return nil
		}
	}
	return apperror.NotFound("user", userID)
}

// mockMailer captures outgoing mail; fails when failWith is set.
type mockMailer struct {
	sent     []sentMail
	failWith error
}

type sentMail struct {
	to, subject, body string
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockMailer) {
	t.Helper()
	repo := newMockUserRepo()
	mailer := &mockMailer{}
	tokens, err := auth.NewTokenService("test-secret-at-least-32-bytes-long!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewAuthService(repo, tokens, auth.NewPasswordServiceForTest(4), mailer, logger)
	return svc, repo, mailer
}

func TestRegister_IssuesUsableToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.ID == "" {
		t.Error("expected a generated user ID")
	}
	if res.User.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	userID, err := svc.ValidateSessionToken(res.Token)
	if err != nil {
		t.Fatalf("validating issued token: %v", err)
	}
	if userID != res.User.ID {
		t.Errorf("token subject = %q, want %q", userID, res.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "Other", "alice@example.com", "pw2")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "User already exists" {
		t.Errorf("expected %q message, got %v", "User already exists", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name                  string
		userName, email, pass string
	}{
		{"no name", "", "a@b.com", "pw"},
		{"no email", "Alice", "", "pw"},
		{"no password", "Alice", "a@b.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.pass)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("email = %q", res.User.Email)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
}

// Unknown email and wrong password must be indistinguishable.
func TestLogin_FailureShapeIsUniform(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	_, errWrongPw := svc.Login(context.Background(), "alice@example.com", "wrong")

	for _, err := range []error{errUnknown, errWrongPw} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestForgotPassword_SendsSixDigitCode(t *testing.T) {
	svc, repo, mailer := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "alice@example.com" {
		t.Errorf("mail to = %q", mailer.sent[0].to)
	}

	user := repo.byEmail["alice@example.com"]
	if user.ResetOTP == nil || len(*user.ResetOTP) != 6 {
		t.Fatalf("expected a stored 6-digit code, got %v", user.ResetOTP)
	}
	for _, c := range *user.ResetOTP {
		if c < '0' || c > '9' {
			t.Errorf("code %q contains a non-digit", *user.ResetOTP)
		}
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// A mail failure surfaces as an error but the stored code survives, so a
// retried send can still deliver a valid code.
func TestForgotPassword_MailFailureKeepsCode(t *testing.T) {
	svc, repo, mailer := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mailer.failWith = errors.New("smtp down")

	err := svc.ForgotPassword(context.Background(), "alice@example.com")
	if err == nil {
		t.Fatal("expected an error")
	}
	if repo.byEmail["alice@example.com"].ResetOTP == nil {
		t.Error("stored code was lost")
	}
}

func TestVerifyResetCode(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	code := *repo.byEmail["alice@example.com"].ResetOTP

	if err := svc.VerifyResetCode(ctx, "alice@example.com", code); err != nil {
		t.Errorf("correct code rejected: %v", err)
	}
	if err := svc.VerifyResetCode(ctx, "alice@example.com", "000000"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("wrong code: expected ErrValidation, got %v", err)
	}

	// Jump past the expiry.
	svc.now = func() time.Time { return time.Now().Add(ResetCodeTTL + time.Minute) }
	if err := svc.VerifyResetCode(ctx, "alice@example.com", code); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("expired code: expected ErrValidation, got %v", err)
	}
}

func TestResetPassword_ConsumesCode(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "oldpw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	code := *repo.byEmail["alice@example.com"].ResetOTP

	if err := svc.ResetPassword(ctx, "alice@example.com", code, "newpw"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// New password works, old one doesn't.
	if _, err := svc.Login(ctx, "alice@example.com", "newpw"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "alice@example.com", "oldpw"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("old password still accepted: %v", err)
	}

	// The code was cleared and cannot be replayed.
	if err := svc.ResetPassword(ctx, "alice@example.com", code, "anotherpw"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("code reuse: expected ErrValidation, got %v", err)
	}
}

func TestGenerateResetCode_AlwaysSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateResetCode()
		if err != nil {
			t.Fatalf("generateResetCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len(%q) = %d", code, len(code))
		}
	}
}
