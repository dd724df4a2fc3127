package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

// selfUpdatable lists the fields users may change about themselves.
var selfUpdatable = []string{validators.FieldName, validators.FieldEmail, "photo"}

type userService struct {
	users     store.UserRepository
	resource  store.ResourceRepository[models.User]
	validator validators.Validator

	logger *logger.Logger
}

// NewUserService constructs a [UserService]. users and resource must be
// backed by the same table.
func NewUserService(users store.UserRepository, resource store.ResourceRepository[models.User], logger *logger.Logger) UserService {
	return &userService{
		users:     users,
		resource:  resource,
		validator: validators.NewUserValidator(),
		logger:    logger,
	}
}

func (s *userService) Me(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, &NotFoundError{Resource: "user"}
	}
	return user, err
}

func (s *userService) UpdateMe(ctx context.Context, userID int64, patch []byte) (models.User, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return models.User{}, validators.FieldError("body", "Invalid request body")
	}
	if _, ok := fields[validators.FieldPassword]; ok {
		return models.User{}, errPasswordRoute
	}
	if _, ok := fields[validators.FieldPasswordConfirm]; ok {
		return models.User{}, errPasswordRoute
	}

	allowed := make(map[string]json.RawMessage, len(selfUpdatable))
	for _, name := range selfUpdatable {
		if v, ok := fields[name]; ok {
			allowed[name] = v
		}
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	filtered, err := json.Marshal(allowed)
	if err != nil {
		return models.User{}, err
	}
	if err := json.Unmarshal(filtered, &user); err != nil {
		return models.User{}, validators.FieldError("body", "Invalid request body")
	}

	user.Email = NormalizeEmail(user.Email)
	if err := s.validator.Validate(ctx, user, validators.FieldName, validators.FieldEmail); err != nil {
		return models.User{}, err
	}

	updated, err := s.resource.Update(ctx, userID, user)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, &NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

func (s *userService) DeleteMe(ctx context.Context, userID int64) error {
	err := s.users.DeactivateUser(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return &NotFoundError{Resource: "user"}
	}
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Msg("user deactivated")
	return nil
}

var errPasswordRoute = validators.FieldError(validators.FieldPassword,
	"This route is not for password updates. Please use /update-password.")

// NewUserAdminService builds the admin-managed user resource. Users are only
// created through signup.
func NewUserAdminService(resource store.ResourceRepository[models.User], logger *logger.Logger) ResourceService[models.User] {
	return NewResourceService(resource, ResourceConfig[models.User]{
		Name:      "user",
		Validator: validators.NewUserValidator(),
		Steps: []Step[models.User]{
			{
				Name: "normalize-email",
				Run: func(_ context.Context, u *models.User, _ Operation) error {
					u.Email = NormalizeEmail(u.Email)
					return nil
				},
			},
		},
	}, logger)
}
