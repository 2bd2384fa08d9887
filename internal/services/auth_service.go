package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUsernameLength       = fmt.Errorf("username must be %d-%d characters", constants.MinUsernameLength, constants.MaxUsernameLength)
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrOrgRequired          = errors.New("organization is required")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles account management: registration, login, profile
// updates, and deletion.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Password string
	Org      string
}

// Register creates a new User-role account. Admin accounts are provisioned
// out of band (cmd/createadmin).
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
		return nil, ErrUsernameLength
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	org := strings.TrimSpace(input.Org)
	if org == "" {
		return nil, ErrOrgRequired
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		Org:          org,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by username.
func (s *AuthService) GetUser(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput carries optional profile changes. Empty fields keep the
// current value.
type UpdateProfileInput struct {
	NewUsername string
	NewPassword string
}

// UpdateProfile changes username and/or password. A rename is a delete and
// recreate under the new key, preserving role, org and password hash, so
// callers must re-establish their session afterwards.
func (s *AuthService) UpdateProfile(username string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return nil, err
	}

	if input.NewPassword != "" {
		if len(input.NewPassword) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	newUsername := strings.TrimSpace(input.NewUsername)
	if newUsername != "" && newUsername != username {
		if len(newUsername) < constants.MinUsernameLength || len(newUsername) > constants.MaxUsernameLength {
			return nil, ErrUsernameLength
		}
		if _, err := s.userRepo.FindByUsername(newUsername); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}

		user.Username = newUsername
		if err := s.userRepo.Rename(username, user); err != nil {
			return nil, fmt.Errorf("failed to rename user: %w", err)
		}
		return user, nil
	}

	if input.NewPassword != "" {
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return user, nil
}

// DeleteAccount removes a user permanently.
func (s *AuthService) DeleteAccount(username string) error {
	if _, err := s.GetUser(username); err != nil {
		return err
	}
	return s.userRepo.Delete(username)
}
