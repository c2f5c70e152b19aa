package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("a user with this email already exists")
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrInactiveUser         = errors.New("inactive user")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// Register creates a new user with a hashed credential.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationErrorf("email", "a valid email is required")
	}
	if len(email) > constants.MaxEmailLength {
		return nil, validationErrorf("email", "email must be at most %d characters", constants.MaxEmailLength)
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.FullName) > constants.MaxFullNameLength {
		return nil, validationErrorf("full_name", "full name must be at most %d characters", constants.MaxFullNameLength)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
// Deactivated accounts are rejected here, not in the authorization layer.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateMeInput represents a partial profile update; nil fields stay unchanged.
type UpdateMeInput struct {
	Email    *string
	FullName *string
}

// UpdateMe applies a partial update to the caller's own profile.
func (s *AuthService) UpdateMe(id uuid.UUID, input UpdateMeInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, validationErrorf("email", "a valid email is required")
		}
		if len(email) > constants.MaxEmailLength {
			return nil, validationErrorf("email", "email must be at most %d characters", constants.MaxEmailLength)
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.FullName != nil {
		if utf8.RuneCountInString(*input.FullName) > constants.MaxFullNameLength {
			return nil, validationErrorf("full_name", "full name must be at most %d characters", constants.MaxFullNameLength)
		}
		user.FullName = strings.TrimSpace(*input.FullName)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *AuthService) ChangePassword(id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return validationErrorf("password", "password must be at least %d characters", constants.MinPasswordLength)
	}
	if len(password) > constants.MaxPasswordLength {
		return validationErrorf("password", "password must be at most %d characters", constants.MaxPasswordLength)
	}
	return nil
}
