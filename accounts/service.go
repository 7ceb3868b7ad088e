// Package accounts implements the user credential flows: account creation,
// account edit, explicit password change, REST saves and authentication.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
	"recipe-service/passwords"
)

// UserStore is the persistence the flows need
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

// Service runs the credential flows against a UserStore
type Service struct {
	store  UserStore
	hasher *passwords.Hasher
	now    func() time.Time
}

// NewService creates a Service
func NewService(store UserStore, hasher *passwords.Hasher) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

// Create validates an add form and stores a new user with an encoded password
func (s *Service) Create(ctx context.Context, form forms.UserAdd) (*models.User, error) {
	cleaned, errs := form.Clean()
	if err := s.checkUnique(ctx, &errs, 0, cleaned.Username, cleaned.Email); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	encoded, err := s.hasher.Encode(cleaned.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		FirstName: cleaned.FirstName,
		LastName:  cleaned.LastName,
		Email:     cleaned.Email,
		Username:  cleaned.Username,
		Password:  encoded,
		IsActive:  cleaned.IsActive,
		Created:   now,
		Modified:  now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, uniqueFieldError(err)
	}
	return user, nil
}

// Edit updates everything but the password of an existing user. Whatever
// the form carries in its password field is discarded.
func (s *Service) Edit(ctx context.Context, id int, form forms.UserChange) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	cleaned, errs := form.Clean(user.Password)
	if err := s.checkUnique(ctx, &errs, user.ID, cleaned.Username, cleaned.Email); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user.FirstName = cleaned.FirstName
	user.LastName = cleaned.LastName
	user.Email = cleaned.Email
	user.Username = cleaned.Username
	user.IsActive = cleaned.IsActive
	user.Password = cleaned.Password
	user.Modified = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, uniqueFieldError(notFound(err))
	}
	return user, nil
}

// ChangePassword replaces the password of user id. The actor's permission
// is checked first, then existence, then the form.
func (s *Service) ChangePassword(ctx context.Context, actor Actor, id int, form forms.PasswordChange) (string, error) {
	if !actor.CanChangeUsers() {
		return "", ErrPermissionDenied
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return "", notFound(err)
	}

	cleaned, errs := form.Clean()
	if err := errs.Err(); err != nil {
		return "", err
	}

	encoded, err := s.hasher.Encode(cleaned.Password)
	if err != nil {
		return "", err
	}
	user.Password = encoded
	user.Modified = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", notFound(err)
	}
	return MsgPasswordChanged, nil
}

// Save creates (ModeCreate, id ignored) or updates user id from a REST
// payload. On update an empty password leaves the stored hash unchanged.
func (s *Service) Save(ctx context.Context, id int, payload forms.UserPayload, mode forms.Mode) (*models.User, error) {
	user := &models.User{IsActive: true}
	if mode != forms.ModeCreate {
		existing, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, notFound(err)
		}
		user = existing
	}

	cleaned, errs := payload.Clean(mode)

	if cleaned.FirstName != nil {
		user.FirstName = *cleaned.FirstName
	}
	if cleaned.LastName != nil {
		user.LastName = *cleaned.LastName
	}
	if cleaned.Email != nil {
		user.Email = *cleaned.Email
	}
	if cleaned.Username != nil {
		user.Username = *cleaned.Username
	}
	if cleaned.IsActive != nil {
		user.IsActive = *cleaned.IsActive
	}

	if err := s.checkUnique(ctx, &errs, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if mode == forms.ModeCreate || cleaned.PasswordChanged() {
		encoded, err := s.hasher.Encode(*cleaned.Password)
		if err != nil {
			return nil, err
		}
		user.Password = encoded
	}

	user.Modified = s.now()
	if mode == forms.ModeCreate {
		user.Created = user.Modified
		if err := s.store.CreateUser(ctx, user); err != nil {
			return nil, uniqueFieldError(err)
		}
		return user, nil
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, uniqueFieldError(notFound(err))
	}
	return user, nil
}

// Authenticate returns the active user whose password matches. Hashes
// encoded with weaker parameters than the current ones are upgraded.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	if s.hasher.MustUpdate(user.Password) {
		encoded, err := s.hasher.Encode(password)
		if err != nil {
			return nil, err
		}
		user.Password = encoded
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to upgrade password hash: %w", err)
		}
	}
	return user, nil
}

// checkUnique adds an error for a username or email owned by a user other
// than excludeID. Fields that already failed are not looked up.
func (s *Service) checkUnique(ctx context.Context, errs *forms.Errors, excludeID int, username, email string) error {
	if username != "" && !errs.Has(forms.FieldUsername) {
		taken, err := s.taken(ctx, s.store.GetUserByUsername, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(forms.FieldUsername, MsgUsernameTaken)
		}
	}

	if email != "" && !errs.Has(forms.FieldEmail) {
		taken, err := s.taken(ctx, s.store.GetUserByEmail, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(forms.FieldEmail, MsgEmailTaken)
		}
	}
	return nil
}

func (s *Service) taken(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value string, excludeID int) (bool, error) {
	other, err := lookup(ctx, value)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	return other.ID != excludeID, nil
}
