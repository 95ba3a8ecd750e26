package user

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error)
		UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error
		GetSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.User, int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("username asc").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("password", hashed).Error
}

// GetSubscriptions lists the authors the user follows, newest follow first.
func (r *userRepository) GetSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.User, int64, error) {
	var authors []*entities.User
	var count int64
	offset := (page - 1) * limit

	base := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID)

	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := base.
		Offset(offset).
		Limit(limit).
		Order("follows.created_at desc").
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}
