package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint, current *models.User) (*models.User, error) {
	if current.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: you have no permission to get user's data", ErrPermissionDenied)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with id '%d' does not exist", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context, offset, limit int, current *models.User) (int64, []models.User, error) {
	if current.Role != models.RoleAdmin {
		return 0, nil, fmt.Errorf("%w: you have no permission to get the list of all users", ErrPermissionDenied)
	}
	return s.Repo.GetAllUsers(ctx, offset, limit)
}

// UpdateUser lets any authenticated user edit their own profile.
func (s *UserService) UpdateUser(ctx context.Context, req transport.UserUpdateRequest, current *models.User) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", current.ID)

	user, err := s.Repo.GetUserByID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with id '%d' does not exist", ErrUserNotFound, current.ID)
		}
		return nil, err
	}

	applyUserUpdate(user, req)
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.Repo.SaveUser(ctx, user)
	if err != nil {
		l.Error("update_user_failed", "status", 400, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *UserService) UpdateUserByAdmin(ctx context.Context, userID uint, req transport.UserAdminUpdateRequest, current *models.User) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.admin_update", "user_id", userID)

	if current.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: you have no permission to update any user's data", ErrPermissionDenied)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with id '%d' does not exist", ErrUserNotFound, userID)
		}
		return nil, err
	}

	applyUserUpdate(user, req.UserUpdateRequest)
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleLibrarian {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.IsBlocked != nil {
		user.IsBlocked = *req.IsBlocked
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.Repo.SaveUser(ctx, user)
	if err != nil {
		l.Error("admin_update_user_failed", "status", 400, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uint, current *models.User) error {
	if current.Role != models.RoleAdmin {
		return fmt.Errorf("%w: you have no permission to delete user profiles", ErrPermissionDenied)
	}

	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user with id '%d' does not exist", ErrUserNotFound, userID)
		}
		return err
	}
	return nil
}

func applyUserUpdate(user *models.User, req transport.UserUpdateRequest) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
}
