package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lakeridgehq/sessiond/internal/auth/domain"
	"github.com/lakeridgehq/sessiond/internal/auth/store"
	"github.com/lakeridgehq/sessiond/pkg/cryptox"
	"github.com/lakeridgehq/sessiond/pkg/idx"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

// RegistrationService creates accounts and runs the email-verification
// handshake. New accounts start inactive; a signed verification token
// (class-separate from access tokens) flips them active. Email transport
// is the caller's problem; the service only mints and checks tokens.
type RegistrationService struct {
	Store      store.Store
	EmailCodec *jwtx.Codec
	Issuer     string
	EmailTTL   time.Duration
}

// normalizeEmail is applied to every email before storage or lookup, so
// the unique index, login, and verification all agree on one canonical
// form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an inactive user and returns the verification token
// that must come back through VerifyEmail.
func (s *RegistrationService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.mintVerificationToken(email, now)
	if err != nil {
		return domain.User{}, "", err
	}

	l.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// VerifyEmail validates a verification token and activates the account it
// names. Idempotent: verifying an already-active account succeeds again.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.EmailCodec.Verify(token)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(claims.Subject))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if user.Active {
		return nil // already verified
	}

	if err := s.Store.Users().SetUserActive(ctx, user.ID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("email verified", "user_id", user.ID)
	return nil
}

func (s *RegistrationService) mintVerificationToken(email string, now time.Time) (string, error) {
	ttl := s.EmailTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultEmailTokenTTL
	}
	return s.EmailCodec.Sign(jwtx.NewEmailClaims(email, s.Issuer, ttl, now))
}
