package service

import (
	"context"
	"log"

	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	apperrors "parkspot/internal/errors"
	"parkspot/internal/repository"
)

// UserService manages accounts on behalf of staff. Nobody can grant a role
// above their own or edit an account that outranks them.
type UserService struct {
	Users repository.UserStore
	Audit *Auditor
}

func NewUserService(users repository.UserStore, auditor *Auditor) *UserService {
	return &UserService{Users: users, Audit: auditor}
}

func (s *UserService) CreateUser(ctx context.Context, actor auth.Principal, req entities.CreateUserRequest) (*db.User, error) {
	if err := validateStruct(validate, req); err != nil {
		return nil, err
	}
	role := db.RoleClient
	if req.Role != "" {
		role = db.Role(req.Role)
	}
	if err := checkGrant(actor, role); err != nil {
		return nil, err
	}

	existing, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict(repository.ErrEmailTaken)
	}

	user := &db.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	}
	if err := s.Users.CreateUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, ActionCreate, ModuleUsers, actor.ID, userAuditPayload(user))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*db.User, error) {
	return s.Users.GetUserByID(ctx, id)
}

func (s *UserService) SearchUsers(ctx context.Context, page, limit int) (entities.Page[db.User], error) {
	page, limit = entities.NormalizePaging(page, limit)
	items, total, err := s.Users.SearchUsers(ctx, limit, entities.Offset(page, limit))
	if err != nil {
		return entities.Page[db.User]{}, err
	}
	return entities.NewPage(items, total, page, limit), nil
}

// UpdateUser applies the non-nil fields of req. A new password is re-hashed
// by the store; a new email must not belong to another user.
func (s *UserService) UpdateUser(ctx context.Context, actor auth.Principal, id string, req entities.UpdateUserRequest) (*db.User, error) {
	if err := validateStruct(validate, req); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkGrant(actor, user.Role); err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.Users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict(repository.ErrEmailTaken)
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		role := db.Role(*req.Role)
		if err := checkGrant(actor, role); err != nil {
			return nil, err
		}
		user.Role = role
	}
	password := ""
	if req.Password != nil {
		password = *req.Password
	}

	if err := s.Users.UpdateUser(ctx, user, password); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, ActionUpdate, ModuleUsers, actor.ID, userAuditPayload(user))
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor auth.Principal, id string) error {
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	log.Printf("User %s deleted by %s", id, actor.ID)
	s.Audit.Record(ctx, ActionDelete, ModuleUsers, actor.ID, map[string]string{"id": id})
	return nil
}

func checkGrant(actor auth.Principal, role db.Role) error {
	if role.Rank() > actor.Role.Rank() {
		return &apperrors.AuthorizationError{Message: "Forbidden resource"}
	}
	return nil
}

// userAuditPayload never carries the password or its hash.
func userAuditPayload(u *db.User) map[string]string {
	return map[string]string{
		"id":    u.ID,
		"email": u.Email,
		"role":  string(u.Role),
	}
}
