package service

import (
	"context"
	"errors"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

const profileMediaFolder = "profiles"

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, id int64, picture models.MediaRef) (*models.User, error)
	SetRole(ctx context.Context, actor models.Identity, id int64, role models.Role) (*models.User, error)
}

type userService struct {
	u     repository.UserRepository
	media *MediaJanitor
}

func NewUserService(u repository.UserRepository, janitor *MediaJanitor) UserService {
	return &userService{
		u:     u,
		media: janitor,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, unavailableError("get user", err)
	}

	if !isExist {
		return nil, notFoundError("get user", ErrUserNotFound)
	}

	return user, nil
}

// UpdateProfilePicture swaps the user's picture and deletes the previous
// uploaded object once the new reference is stored.
func (s *userService) UpdateProfilePicture(ctx context.Context, id int64, picture models.MediaRef) (*models.User, error) {
	user, err := s.GetUserInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := user.ProfilePicture
	if s.media != nil {
		if err := s.media.Accept("update profile picture", models.Identity{ID: id}, profileMediaFolder, picture, previous); err != nil {
			return nil, err
		}
	}
	user.ProfilePicture = picture
	if err := s.u.Update(ctx, user); err != nil {
		return nil, unavailableError("update profile picture", err)
	}

	if s.media != nil && !s.media.Same(previous, picture) {
		s.media.Delete(ctx, previous, "profile picture replaced", "user_id", id)
	}
	return user, nil
}

func (s *userService) SetRole(ctx context.Context, actor models.Identity, id int64, role models.Role) (*models.User, error) {
	const op = "set user role"

	if !actor.IsModerator() {
		return nil, forbiddenError(op, "only moderators can change roles")
	}
	if !role.Valid() {
		return nil, validationError(op, "unknown role %q", role)
	}

	user, err := s.GetUserInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.u.Update(ctx, user); err != nil {
		return nil, unavailableError(op, err)
	}
	return user, nil
}
