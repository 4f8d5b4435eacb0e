package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
	"gallery-auction/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users           domain.UserRepository
	adminAccessCode string
	log             logger.Logger
}

func NewAuthService(users domain.UserRepository, adminAccessCode string, log logger.Logger) *AuthService {
	return &AuthService{
		users:           users,
		adminAccessCode: adminAccessCode,
		log:             log,
	}
}

// Register creates a user with a bcrypt digest of the password. The
// plaintext is never stored. A duplicate email surfaces as ErrEmailTaken
// straight from the unique index, so concurrent registrations cannot both
// succeed.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if password == "" {
		return nil, &domain.ValidationError{Field: "password", Reason: "required"}
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: "must be user or admin"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate verifies credentials and then checks the stored role
// against the requested one. A correct login for the wrong role is a
// distinct failure (ErrRoleMismatch), not an authentication error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string, requestedRole domain.Role) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.Role != requestedRole {
		return nil, domain.ErrRoleMismatch
	}

	return user, nil
}

// UserUpdate carries the admin edit form. A nil/blank Password leaves the
// existing digest untouched.
type UserUpdate struct {
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

func (s *AuthService) UpdateUser(ctx context.Context, userID string, update UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(strings.ToLower(update.Email)); email != "" {
		user.Email = email
	}
	if update.Role != "" {
		if !update.Role.Valid() {
			return nil, &domain.ValidationError{Field: "role", Reason: "must be user or admin"}
		}
		user.Role = update.Role
	}
	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User updated", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// CheckAdminCode validates the shared admin access code. This gates the
// admin login screen only; it is not an authentication mechanism.
func (s *AuthService) CheckAdminCode(code string) bool {
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminAccessCode)) == 1
}
