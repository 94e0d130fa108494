package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/leyenda/storefront/internal/models"
)

// UserStore is the account persistence collaborator. Create must surface
// models.ErrEmailTaken on a duplicate email.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, token string) (bool, error)
}

// Mailer delivers the verification message. Actual transport is a
// collaborator concern; the storefront only needs the hook.
type Mailer interface {
	SendVerification(ctx context.Context, toEmail, toName, token string) error
}

// LogMailer records the verification mail instead of sending it.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) SendVerification(_ context.Context, toEmail, toName, token string) error {
	m.Log.Info("verification mail",
		slog.String("to", toEmail),
		slog.String("name", toName),
		slog.String("token", token),
	)
	return nil
}

// AccountService handles registration, login and e-mail verification.
type AccountService struct {
	users  UserStore
	mailer Mailer
}

func NewAccountService(users UserStore, mailer Mailer) *AccountService {
	return &AccountService{users: users, mailer: mailer}
}

// Register creates an unverified account and hands the verification token to
// the mailer. A failed mail send does not undo the registration; the token
// stays valid and delivery can be retried out of band.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, models.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		VerifyToken:  strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, u.Email, u.Name, u.VerifyToken); err != nil {
		return u, errors.Wrap(err, "send verification")
	}
	return u, nil
}

// Login checks credentials and requires a verified account. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if u == nil {
		return nil, models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, models.ErrNotVerified
	}
	return u, nil
}

// Verify flips the account matching token to verified.
func (s *AccountService) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.ErrInvalidToken
	}

	ok, err := s.users.MarkVerified(ctx, token)
	if err != nil {
		return errors.Wrap(err, "mark verified")
	}
	if !ok {
		return models.ErrInvalidToken
	}
	return nil
}
