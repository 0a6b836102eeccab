package service

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	apperrors "parkspot/internal/errors"
	"parkspot/internal/repository"
)

const invalidCredentials = "invalid credentials"

type AuthService struct {
	Users  repository.UserStore
	Tokens *auth.Tokens
	Audit  *Auditor
}

func NewAuthService(users repository.UserStore, tokens *auth.Tokens, auditor *Auditor) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Audit: auditor}
}

func (s *AuthService) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	if err := validateStruct(validate, req); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperrors.AuthenticationError{Message: invalidCredentials}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &apperrors.AuthenticationError{Message: invalidCredentials}
	}

	principal := auth.Principal{ID: user.ID, Email: user.Email, Role: user.Role}
	token, err := s.Tokens.Issue(principal)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, ActionLogin, ModuleAuth, user.ID, map[string]string{"email": user.Email})
	return &entities.LoginResponse{
		Token: token,
		User: entities.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
		},
	}, nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists. Empty credentials skip bootstrapping.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := s.Users.CreateUser(ctx, &db.User{Email: email, Role: db.RoleAdmin}, password); err != nil {
		return err
	}
	log.Printf("Created admin user %s", email)
	return nil
}
