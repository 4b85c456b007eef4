package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-service/auth"
	"task-service/avatar"
	"task-service/models"
	"task-service/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Notifier sends account emails without blocking the caller
type Notifier interface {
	Welcome(email, name string)
	Goodbye(email, name string)
}

// AvatarCache is the optional read cache in front of stored avatars
type AvatarCache interface {
	Get(userID string) ([]byte, bool)
	Set(userID string, png []byte)
	Delete(userID string)
}

// Users implements registration, sessions, profile and avatar operations
type Users struct {
	db       *sqlx.DB
	tokens   *auth.TokenService
	hasher   *auth.Hasher
	notifier Notifier
	avatars  AvatarCache
	now      func() time.Time

	// compared against on unknown emails so both login failures cost a bcrypt round
	dummyHash string
}

func NewUsers(db *sqlx.DB, tokens *auth.TokenService, hasher *auth.Hasher, notifier Notifier, avatars AvatarCache) *Users {
	dummy, _ := hasher.Hash(uuid.NewString())
	return &Users{
		db:        db,
		tokens:    tokens,
		hasher:    hasher,
		notifier:  notifier,
		avatars:   avatars,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register creates the user together with its first session and queues the welcome email
func (s *Users) Register(ctx context.Context, req models.CreateUserRequest) (*models.AuthResponse, error) {
	password := strings.TrimSpace(req.Password)
	in := profileInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    normaliseEmail(req.Email),
		Password: &password,
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	if err := checkProfile(in); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		Age:       in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var token string
	err = repository.InTx(ctx, s.db, func(tx repository.DBTX) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		issued, err := s.issueSession(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		token = issued
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.welcome(user)
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login answers ErrUnableToLogin for an unknown email and a wrong password alike
func (s *Users) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	password := strings.TrimSpace(req.Password)

	user, err := repository.NewUserRepository(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return nil, ErrUnableToLogin
		}
		return nil, storeError(err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		return nil, ErrUnableToLogin
	}

	token, err := s.issueSession(ctx, s.db, user.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Logout revokes only the presented token; other sessions stay valid
func (s *Users) Logout(ctx context.Context, ident auth.Identity) error {
	return storeError(repository.NewTokenRepository(s.db).Remove(ctx, ident.User.ID, ident.Token))
}

// LogoutAll empties the user's session list
func (s *Users) LogoutAll(ctx context.Context, ident auth.Identity) error {
	return storeError(repository.NewTokenRepository(s.db).RemoveAll(ctx, ident.User.ID))
}

// UpdateProfile applies the non-nil fields of req after re-validating the
// resulting profile. The caller checks the field allow-list first.
func (s *Users) UpdateProfile(ctx context.Context, user *models.User, req models.UpdateUserRequest) (*models.User, error) {
	updated := *user
	in := profileInput{Name: user.Name, Email: user.Email, Age: user.Age}

	if req.Name != nil {
		in.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		in.Email = normaliseEmail(*req.Email)
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		in.Password = &password
	}
	if err := checkProfile(in); err != nil {
		return nil, err
	}

	updated.Name = in.Name
	updated.Email = in.Email
	updated.Age = in.Age
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.Password = hashed
	}
	updated.UpdatedAt = s.now().UTC()

	repo := repository.NewUserRepository(s.db)
	if err := repo.Update(ctx, &updated); err != nil {
		return nil, storeError(err)
	}
	stored, err := repo.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return stored, nil
}

// DeleteProfile removes the user with its tasks and sessions in one transaction,
// then queues the goodbye email. It reports how many tasks went with the user.
func (s *Users) DeleteProfile(ctx context.Context, user *models.User) (*models.User, int64, error) {
	var removed int64
	err := repository.InTx(ctx, s.db, func(tx repository.DBTX) error {
		n, err := repository.NewTaskRepository(tx).DeleteByOwner(ctx, user.ID)
		if err != nil {
			return err
		}
		removed = n
		if err := repository.NewTokenRepository(tx).RemoveAll(ctx, user.ID); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, 0, storeError(err)
	}

	if s.avatars != nil {
		s.avatars.Delete(user.ID)
	}
	s.goodbye(user)
	return user, removed, nil
}

// UploadAvatar screens and normalises data before replacing the stored avatar
func (s *Users) UploadAvatar(ctx context.Context, userID, filename string, data []byte) error {
	if err := avatar.CheckUpload(filename, int64(len(data))); err != nil {
		return fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}

	normalised, err := avatar.Normalize(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}

	if err := repository.NewUserRepository(s.db).SetAvatar(ctx, userID, normalised); err != nil {
		return storeError(err)
	}
	if s.avatars != nil {
		s.avatars.Set(userID, normalised)
	}
	return nil
}

// ClearAvatar removes the stored avatar; clearing an empty one is not an error
func (s *Users) ClearAvatar(ctx context.Context, userID string) error {
	if err := repository.NewUserRepository(s.db).SetAvatar(ctx, userID, nil); err != nil {
		return storeError(err)
	}
	if s.avatars != nil {
		s.avatars.Delete(userID)
	}
	return nil
}

// Avatar returns the PNG bytes of userID's avatar or ErrNotFound
func (s *Users) Avatar(ctx context.Context, userID string) ([]byte, error) {
	if s.avatars != nil {
		if png, ok := s.avatars.Get(userID); ok {
			return png, nil
		}
	}

	png, err := repository.NewUserRepository(s.db).GetAvatar(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if s.avatars != nil {
		s.avatars.Set(userID, png)
	}
	return png, nil
}

func (s *Users) issueSession(ctx context.Context, db repository.DBTX, userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", err
	}
	if err := repository.NewTokenRepository(db).Add(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Users) welcome(user *models.User) {
	if s.notifier != nil {
		s.notifier.Welcome(user.Email, user.Name)
	}
}

func (s *Users) goodbye(user *models.User) {
	if s.notifier != nil {
		s.notifier.Goodbye(user.Email, user.Name)
	}
}
