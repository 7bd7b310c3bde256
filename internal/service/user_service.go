package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/markbates/goth"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/store"
	users "github.com/nexoragaming/phantomid/internal/user"
	"github.com/nexoragaming/phantomid/internal/utils"
)

type UserService struct {
	db    *sqlx.DB
	store *store.UserStore
	clock clockwork.Clock
}

func NewUserService(db *sqlx.DB, store *store.UserStore, clock clockwork.Clock) *UserService {
	return &UserService{db: db, store: store, clock: clock}
}

// NewPhantomID derives the public player handle from the user id.
func NewPhantomID(id uuid.UUID) string {
	return "PID-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

func displayName(gothUser goth.User) string {
	for _, name := range []string{gothUser.NickName, gothUser.Name, gothUser.Email} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return "player"
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		name := displayName(gothUser)
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL || user.Username != name {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = name
			if err := s.store.UpdateUserNameAndAvatar(ctx, user); err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
		}
		return user, nil
	}

	if db.IsNoRows(err) {
		id := uuid.New()
		newUser := &users.User{
			ID:         id,
			Email:      gothUser.Email,
			Username:   displayName(gothUser),
			PhantomID:  utils.Ptr(NewPhantomID(id)),
			Provider:   utils.Ptr(gothUser.Provider),
			ProviderID: utils.Ptr(gothUser.UserID),
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
			CreatedAt:  s.clock.Now().UTC(),
		}
		if err := s.store.CreateUser(ctx, newUser); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return newUser, nil
	}

	return nil, err
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser returns the user with the given id, creating a bare account when missing.
// The operator CLI uses it for the account it acts as.
func (s *UserService) EnsureUser(ctx context.Context, id uuid.UUID, username string) (*users.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}

	if db.IsNoRows(err) {
		newUser := &users.User{
			ID:        id,
			Username:  username,
			PhantomID: utils.Ptr(NewPhantomID(id)),
			CreatedAt: s.clock.Now().UTC(),
		}
		if err := s.store.CreateUser(ctx, newUser); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return newUser, nil
	}
	return nil, err
}
