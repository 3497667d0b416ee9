package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/pkg/utils"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// SignupInput is the privacy-first signup payload: no email is required.
type SignupInput struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	RecoveryEmail string `json:"recovery_email,omitempty"`
}

// AuthService manages accounts and sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	cipher   *utils.Cipher
	clock    Clock
}

// NewAuthService wires the account store. cipher may be nil, in which case
// recovery emails are refused.
func NewAuthService(users UserRepository, sessions SessionStore, cipher *utils.Cipher, clock Clock) *AuthService {
	return &AuthService{users: users, sessions: sessions, cipher: cipher, clock: clock}
}

// Signup creates an account and opens its first session.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (models.Session, models.User, error) {
	if err := models.ValidateUsername(in.Username); err != nil {
		return models.Session{}, models.User{}, err
	}
	if err := models.ValidatePassword(in.Password); err != nil {
		return models.Session{}, models.User{}, err
	}

	taken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	if taken {
		return models.Session{}, models.User{}, models.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.Session{}, models.User{}, err
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     models.NormalizeUsername(in.Username),
		PasswordHash: hash,
		Settings:     models.DefaultSettings(),
		IsActive:     true,
		CreatedAt:    s.clock.now(),
	}

	if email := strings.TrimSpace(in.RecoveryEmail); email != "" {
		if s.cipher == nil {
			return models.Session{}, models.User{}, &models.ValidationError{Field: "recovery_email", Message: "Recovery email is not supported on this server"}
		}
		if !strings.Contains(email, "@") {
			return models.Session{}, models.User{}, &models.ValidationError{Field: "recovery_email", Message: "Recovery email is invalid"}
		}
		if user.RecoveryEmailEncrypted, err = s.cipher.Encrypt(email); err != nil {
			return models.Session{}, models.User{}, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.Session{}, models.User{}, err
	}
	logger.Info("user signed up", "user_id", user.ID)

	sess, err := s.open(ctx, user.ID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	return sess, user, nil
}

// UsernameAvailable validates a username and reports whether it is free.
func (s *AuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := models.ValidateUsername(username); err != nil {
		return false, err
	}
	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Signin verifies credentials and replaces any previous session of the user.
func (s *AuthService) Signin(ctx context.Context, username, password string) (models.Session, models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.Session{}, models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, models.User{}, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return models.Session{}, models.User{}, ErrInvalidCredentials
	}
	if !ok {
		return models.Session{}, models.User{}, ErrInvalidCredentials
	}

	sess, err := s.open(ctx, user.ID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	return sess, user, nil
}

// Signout ends the session. Signing out twice is not an error.
func (s *AuthService) Signout(ctx context.Context, sess models.Session) error {
	if sess.Token == "" {
		return nil
	}
	return s.sessions.Invalidate(ctx, sess.Token)
}

// Resolve turns a bearer token into a session.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Session, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{UserID: userID, Token: token}, nil
}

// Me returns the account behind the session.
func (s *AuthService) Me(ctx context.Context, sess models.Session) (models.User, error) {
	if err := sess.Require(); err != nil {
		return models.User{}, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrNotAuthenticated
	}
	return user, err
}

func (s *AuthService) Settings(ctx context.Context, sess models.Session) (models.UserSettings, error) {
	user, err := s.Me(ctx, sess)
	if err != nil {
		return models.UserSettings{}, err
	}
	return user.Settings, nil
}

func (s *AuthService) UpdateSettings(ctx context.Context, sess models.Session, settings models.UserSettings) (models.UserSettings, error) {
	if err := sess.Require(); err != nil {
		return models.UserSettings{}, err
	}
	if err := settings.Validate(); err != nil {
		return models.UserSettings{}, err
	}
	if err := s.users.UpdateSettings(ctx, sess.UserID, settings, s.clock.now()); err != nil {
		return models.UserSettings{}, err
	}
	return settings, nil
}

func (s *AuthService) open(ctx context.Context, userID uuid.UUID) (models.Session, error) {
	token, err := s.sessions.Create(ctx, userID)
	if err != nil {
		logger.Error("failed to create session", "user_id", userID, "error", err)
		return models.Session{}, err
	}
	return models.Session{UserID: userID, Token: token}, nil
}
