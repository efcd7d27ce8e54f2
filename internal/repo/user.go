package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &user, nil
}

// GetUserByID loads the user together with its role and avatar.
func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Role").
		Preload("Avatar").
		Where("id_user = ?", id).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserRole(ctx context.Context, userID uint) (*models.Role, error) {
	var role models.Role
	err := r.DB.WithContext(ctx).
		Model(&models.Role{}).
		Joins("JOIN users ON users.id_role = roles.id_role").
		Where("users.id_user = ?", userID).
		First(&role).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &role, nil
}

func (r *GormRepo) GetRefreshToken(ctx context.Context, userID uint) (*string, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Select("id_user", "refresh_token").
		Where("id_user = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user.RefreshToken, nil
}

// SetRefreshToken overwrites the stored refresh token; nil clears it.
// It returns the number of rows touched, zero when the user is gone.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID uint, token *string) (int64, error) {
	var value any
	if token != nil {
		value = *token
	}
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id_user = ?", userID).
		Update("refresh_token", value)
	if res.Error != nil {
		return 0, persistence(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return persistence(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) EnsureRole(ctx context.Context, role domain.Role) (*models.Role, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	out := models.Role{Name: role.String()}
	if err := r.DB.WithContext(ctx).Where("name = ?", out.Name).FirstOrCreate(&out).Error; err != nil {
		return nil, persistence(err)
	}
	return &out, nil
}

func (r *GormRepo) EnsureAvatar(ctx context.Context, name string) (*models.Avatar, error) {
	out := models.Avatar{Name: name}
	if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&out).Error; err != nil {
		return nil, persistence(err)
	}
	return &out, nil
}
