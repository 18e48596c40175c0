package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/types"
)

// UserService covers the bootstrap path: a client registers once, gets its
// user id back and sends it as X-User-ID from then on. There is no login.
type UserService interface {
	Register(ctx context.Context, displayName string) (*types.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) Register(ctx context.Context, displayName string) (*types.User, error) {
	if displayName == "" {
		return nil, fmt.Errorf("Display name is required")
	}
	user := &types.User{
		ID:          uuid.New(),
		DisplayName: displayName,
	}
	created, err := us.userRepo.Create(ctx, nil, []*types.User{user})
	if err != nil {
		return nil, fmt.Errorf("Failed to create user: %w", err)
	}
	us.log.Info("User registered", "user_id", created[0].ID.String())
	return created[0], nil
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("User not found")
	}
	return users[0], nil
}
