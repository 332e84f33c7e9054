package service

import (
	"context" // Request scoped operations
	"errors"  // Error inspection

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/repository" // Persistence

	"github.com/samber/oops"     // Coded errors
	"github.com/sirupsen/logrus" // Logging
)

// AuthService registers users and checks credentials
type AuthService struct {
	users        repository.UserRepository
	verification *VerificationService
	bcryptCost   int
	dummyHash    string // compared against for unknown emails
}

// NewAuthService creates an AuthService
func NewAuthService(users repository.UserRepository, verification *VerificationService, bcryptCost int) (*AuthService, error) {
	dummy, err := hashPassword("not-a-real-password", bcryptCost)
	if err != nil {
		return nil, oops.Code("AUTH_INIT_FAILED").Wrap(err)
	}
	return &AuthService{
		users:        users,
		verification: verification,
		bcryptCost:   bcryptCost,
		dummyHash:    dummy,
	}, nil
}

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified user and mails a verification link.
// The caller is not logged in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("operation", "hash password").Wrap(err)
	}
	user := &domain.User{
		Name:     name,
		Email:    domain.NormalizeEmail(in.Email),
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, oops.Code(CodeEmailTaken).Errorf("email already taken")
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("operation", "create user").Wrap(err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")

	// A failed mail leaves the account usable; the user can ask for a new link
	if err := s.verification.Send(ctx, user); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to send verification email")
	}
	return user, nil
}

// Authenticate checks credentials. A verified match returns the user; an
// unverified match returns the user together with a CodeEmailNotVerified error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "find user").Wrap(err)
	}
	if user == nil {
		checkPassword(s.dummyHash, password) // Keep timing equal to a real comparison
		return nil, oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
	}
	if !checkPassword(user.Password, password) {
		return nil, oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
	}
	if !user.HasVerifiedEmail() {
		return user, oops.Code(CodeEmailNotVerified).With("user_id", user.ID).Errorf("email not verified")
	}
	return user, nil
}

// User loads a user by id
func (s *AuthService) User(ctx context.Context, id uint) (*domain.User, error) {
	return findUser(ctx, s.users, id)
}

func findUser(ctx context.Context, users repository.UserRepository, id uint) (*domain.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, oops.Code(CodeUserNotFound).With("user_id", id).Errorf("user not found")
	}
	if err != nil {
		return nil, oops.Code("USER_LOAD_FAILED").With("user_id", id).Wrap(err)
	}
	return user, nil
}
