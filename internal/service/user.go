package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"blognest/internal/model"
	"blognest/internal/repository"
)

// UserService handles business logic for user accounts.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user account. Input is assumed to have passed
// field validation; uniqueness is enforced by the store and surfaces here
// as ErrUsernameTaken / ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	// Hash the password; the plaintext is never stored or logged.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHashed: string(hashedPassword),
		AvatarURL:      req.AvatarURL,
		AvatarKey:      req.AvatarKey,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Don't reveal whether the email is registered
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername retrieves a user for the public profile page.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// GetByEmail retrieves a user by email, used by the password-reset flow.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateAccount applies profile changes for userID and returns the previous
// avatar key when the avatar was replaced, so the caller can clean up the
// stored object.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *model.UpdateAccountRequest) (*model.User, *string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var oldAvatarKey *string
	if req.AvatarURL != nil {
		oldAvatarKey = user.AvatarKey
		user.AvatarURL = req.AvatarURL
		user.AvatarKey = req.AvatarKey
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	logrus.WithField("user_id", user.ID).Info("account updated")
	return user, oldAvatarKey, nil
}

// ChangePassword hashes and stores a new password for userID.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, plaintext string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	logrus.WithField("user_id", userID).Info("password changed")
	return nil
}
