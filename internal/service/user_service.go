package service

import (
	"context"
	"fmt"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/validator"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest, caller *model.Identity) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req *model.UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, id uint) (*model.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*model.UserResponse, error)
	Count(ctx context.Context) (int64, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a user. While the users table is empty anybody may
// register; afterwards caller must be an ADMIN.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest, caller *model.Identity) (*model.UserResponse, error) {
	// 1. Required fields and role
	if req.Username == "" || req.Password == "" || req.Role == "" {
		return nil, apperr.ErrMissingUserData
	}
	req.Role = model.NormalizeRole(req.Role)
	if !model.ValidRole(req.Role) {
		return nil, apperr.ErrInvalidRole
	}

	// 2. Bootstrap rule
	if caller == nil || caller.Role != model.RoleAdmin {
		n, err := s.userRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		switch {
		case n > 0 && caller == nil:
			return nil, apperr.ErrTokenMissing
		case n > 0:
			return nil, apperr.ErrOnlyAdminRegisters
		}
	}

	// 3. Shape of the fields
	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.InvalidUserData(msg)
	}

	// 4. Username uniqueness
	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrUsernameConflict
	}

	user := &model.User{Username: req.Username, Role: req.Role}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.ErrUsernameConflict
		}
		return nil, err
	}

	obs.Logger.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req *model.UpdateUserRequest) (*model.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// Empty strings count as absent.
	req.Username = nilIfEmpty(req.Username)
	req.Role = nilIfEmpty(req.Role)
	req.Password = nilIfEmpty(req.Password)

	if req.Role != nil {
		role := model.NormalizeRole(*req.Role)
		if !model.ValidRole(role) {
			return nil, apperr.ErrInvalidRole
		}
		req.Role = &role
	}
	if req.Username == nil && req.Role == nil && req.Password == nil {
		return nil, apperr.ErrNoFieldsProvided
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.InvalidUserData(msg)
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.userRepo.FindByUsername(ctx, *req.Username)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.ErrUsernameConflict
		}
		user.Username = *req.Username
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.ErrUsernameConflict
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// DeleteUser removes a user that owns no sales and returns the removed row.
func (s *userService) DeleteUser(ctx context.Context, id uint) (*model.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.userRepo.CountSales(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.ErrUserHasSales
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	obs.Logger.Info("user deleted", "user_id", id, "username", user.Username)
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*model.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *userService) findUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
