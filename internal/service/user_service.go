package service

import (
	"context"
	"net/mail"
	"strings"

	"brewhub/internal/models"
	"brewhub/internal/repository"
	"brewhub/internal/validation"
)

// UserService reads identities and edits the profile fields this backend owns.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName *string
	Email       *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Identity, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	identity := user.Identity()
	return &identity, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Identity, error) {
	fields := map[string]interface{}{}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if err := validation.ValidateDisplayName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["display_name"] = name
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, models.NewValidationError("email is not valid")
		}
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != in.UserID {
			return nil, models.NewConflictError("Email already in use")
		}
		fields["email"] = email
	}

	if len(fields) == 0 {
		return nil, models.NewValidationError("missing required update fields")
	}

	user, err := s.userRepo.UpdateProfile(ctx, in.UserID, fields)
	if err != nil {
		return nil, err
	}
	identity := user.Identity()
	return &identity, nil
}
