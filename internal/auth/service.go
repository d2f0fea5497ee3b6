// Package auth simulates account registration and session management on top
// of the local blob store. It is prototype-grade on purpose: the hash check
// happens client-side of any real trust boundary and stands in for a proper
// credential-verification service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/auracommerce/storefront/internal/events"
	"github.com/auracommerce/storefront/internal/hash"
	"github.com/auracommerce/storefront/internal/localstore"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/models"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrStorage            = errors.New("storage failure")
)

// Storage keys are part of the persisted blob format.
const (
	usersKey   = "auracommerce_users"
	sessionKey = "auracommerce_current_user"
)

const eventKeyAuth = "auth"

type Service struct {
	Store     *localstore.Store
	JWTSecret []byte
	Events    events.Publisher
}

// ProfilePatch carries partial profile updates; nil fields are left alone.
// Email and the password hash are not patchable through this path.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"lastName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (s *Service) loadAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if _, err := s.Store.Get(ctx, usersKey, &accounts); err != nil {
		return nil, fmt.Errorf("%w: read accounts: %v", ErrStorage, err)
	}
	return accounts, nil
}

func (s *Service) saveAccounts(ctx context.Context, accounts []models.Account) error {
	if err := s.Store.Put(ctx, usersKey, accounts); err != nil {
		return fmt.Errorf("%w: write accounts: %v", ErrStorage, err)
	}
	return nil
}

func (s *Service) setSession(ctx context.Context, account models.Account) error {
	if err := s.Store.Put(ctx, sessionKey, account); err != nil {
		return fmt.Errorf("%w: write session: %v", ErrStorage, err)
	}
	return nil
}

func (s *Service) issueToken(accountID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  accountID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
		ID:       uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// VerifySession resolves a presented token to the account id of the
// persisted current session. A token whose signature is still valid but
// which no longer matches the persisted record (after logout or a password
// change) is rejected.
func (s *Service) VerifySession(ctx context.Context, token string) (string, error) {
	sub, err := s.VerifyToken(token)
	if err != nil {
		return "", err
	}

	var account models.Account
	found, err := s.Store.Get(ctx, sessionKey, &account)
	if err != nil {
		if errors.Is(err, localstore.ErrDecode) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: read session: %v", ErrStorage, err)
	}
	if !found || account.Token != token || account.Profile.ID != sub {
		return "", ErrInvalidCredentials
	}
	return sub, nil
}

// VerifyToken returns the account id a session token was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, eventKeyAuth, event); err != nil {
		logging.FromContext(ctx).Warn("storage_event_publish_failed", "error", err)
	}
}

// Register creates an account, persists it and opens a session for it.
// Email uniqueness is checked with an exact, case-sensitive match.
func (s *Service) Register(ctx context.Context, email, password, name, lastName string) (*models.Profile, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		l.Error("register_failed", "reason", "cannot read accounts", "error", err)
		return nil, err
	}
	for _, a := range accounts {
		if a.Profile.Email == email {
			l.Warn("register_failed", "reason", "duplicate email")
			return nil, ErrDuplicateEmail
		}
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	id := uuid.NewString()
	token, err := s.issueToken(id)
	if err != nil {
		l.Error("register_failed", "reason", "cannot issue token", "error", err)
		return nil, err
	}

	account := models.Account{
		Profile: models.Profile{
			ID:        id,
			Email:     email,
			Name:      name,
			LastName:  lastName,
			CreatedAt: time.Now().UTC(),
		},
		Token:        token,
		PasswordHash: pwHash,
	}

	if err := s.saveAccounts(ctx, append(accounts, account)); err != nil {
		l.Error("register_failed", "error", err)
		return nil, err
	}
	if err := s.setSession(ctx, account); err != nil {
		l.Error("register_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, map[string]any{"type": "user_registered", "userID": id, "email": email})
	l.Info("register_success", "userID", id)

	profile := account.Profile
	return &profile, nil
}

// Login verifies credentials and opens a session. A missing account and a
// wrong password both surface as ErrInvalidCredentials so callers cannot
// enumerate registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		l.Error("login_failed", "reason", "cannot read accounts", "error", err)
		return nil, err
	}

	for _, a := range accounts {
		if a.Profile.Email != email || !hash.CheckPassword(a.PasswordHash, password) {
			continue
		}
		if err := s.setSession(ctx, a); err != nil {
			l.Error("login_failed", "error", err)
			return nil, err
		}
		s.publish(ctx, map[string]any{"type": "user_logged_in", "userID": a.Profile.ID, "email": email})
		l.Info("login_success", "userID", a.Profile.ID)
		profile := a.Profile
		return &profile, nil
	}

	l.Warn("login_failed", "reason", "invalid email or password")
	return nil, ErrInvalidCredentials
}

// Logout clears the session marker. Idempotent: logging out while anonymous
// succeeds.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.Store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("%w: clear session: %v", ErrStorage, err)
	}
	s.publish(ctx, map[string]any{"type": "user_logged_out"})
	return nil
}

// CurrentUser reads the persisted session marker. A missing or malformed
// record means anonymous, reported as (nil, nil).
func (s *Service) CurrentUser(ctx context.Context) (*models.Profile, error) {
	var account models.Account
	found, err := s.Store.Get(ctx, sessionKey, &account)
	if err != nil {
		if errors.Is(err, localstore.ErrDecode) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read session: %v", ErrStorage, err)
	}
	if !found || account.Profile.ID == "" {
		return nil, nil
	}
	profile := account.Profile
	return &profile, nil
}

// SessionToken returns the token of the persisted session, empty when
// anonymous.
func (s *Service) SessionToken(ctx context.Context) (string, error) {
	var account models.Account
	found, err := s.Store.Get(ctx, sessionKey, &account)
	if err != nil {
		if errors.Is(err, localstore.ErrDecode) {
			return "", nil
		}
		return "", fmt.Errorf("%w: read session: %v", ErrStorage, err)
	}
	if !found {
		return "", nil
	}
	return account.Token, nil
}

// UpdateProfile merges patch into the stored profile and refreshes the
// session snapshot when it refers to the same account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.Profile, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "userID", userID)

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		l.Error("update_profile_failed", "error", err)
		return nil, err
	}

	idx := -1
	for i, a := range accounts {
		if a.Profile.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.Warn("update_profile_failed", "reason", "no such account")
		return nil, ErrUserNotFound
	}

	p := &accounts[idx].Profile
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Avatar != nil {
		p.Avatar = *patch.Avatar
	}

	if err := s.saveAccounts(ctx, accounts); err != nil {
		l.Error("update_profile_failed", "error", err)
		return nil, err
	}
	current, err := s.CurrentUser(ctx)
	if err != nil {
		l.Error("update_profile_failed", "error", err)
		return nil, err
	}
	if current != nil && current.ID == userID {
		if err := s.setSession(ctx, accounts[idx]); err != nil {
			l.Error("update_profile_failed", "error", err)
			return nil, err
		}
	}

	s.publish(ctx, map[string]any{"type": "profile_updated", "userID": userID})
	l.Info("update_profile_success")

	profile := accounts[idx].Profile
	return &profile, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. The session token is rotated as well; a stale token must not
// outlive a password change.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "userID", userID)

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		l.Error("change_password_failed", "error", err)
		return err
	}

	idx := -1
	for i, a := range accounts {
		if a.Profile.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.Warn("change_password_failed", "reason", "no such account")
		return ErrUserNotFound
	}

	if !hash.CheckPassword(accounts[idx].PasswordHash, currentPassword) {
		l.Warn("change_password_failed", "reason", "wrong current password")
		return ErrInvalidCredentials
	}

	newHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("change_password_failed", "reason", "cannot hash password", "error", err)
		return err
	}
	token, err := s.issueToken(userID)
	if err != nil {
		l.Error("change_password_failed", "reason", "cannot issue token", "error", err)
		return err
	}

	accounts[idx].PasswordHash = newHash
	accounts[idx].Token = token

	if err := s.saveAccounts(ctx, accounts); err != nil {
		l.Error("change_password_failed", "error", err)
		return err
	}
	current, err := s.CurrentUser(ctx)
	if err != nil {
		l.Error("change_password_failed", "error", err)
		return err
	}
	if current != nil && current.ID == userID {
		if err := s.setSession(ctx, accounts[idx]); err != nil {
			l.Error("change_password_failed", "error", err)
			return err
		}
	}

	s.publish(ctx, map[string]any{"type": "password_changed", "userID": userID})
	l.Info("change_password_success")
	return nil
}
