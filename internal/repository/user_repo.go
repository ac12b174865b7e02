package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// UserFilter narrows user counts. Nil fields do not filter.
type UserFilter struct {
	UserType   *api.UserType
	Active     *bool
	AcademiaID *uint
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id uint) error
	Count(ctx context.Context, f UserFilter) (int64, error)
	CountPersonaisByAcademia(ctx context.Context, academiaIDs []uint) (map[uint]int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Academia").Save(user).Error
}

func (r *userRepo) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("is_active", false).Error
}

func (r *userRepo) Count(ctx context.Context, f UserFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.UserType != nil {
		q = q.Where("user_type = ?", *f.UserType)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.AcademiaID != nil {
		q = q.Where("academia_id = ?", *f.AcademiaID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *userRepo) CountPersonaisByAcademia(ctx context.Context, academiaIDs []uint) (map[uint]int64, error) {
	q := r.db.WithContext(ctx).Where("user_type = ?", api.UserTypePersonal)
	return countBy(q, &models.User{}, "academia_id", academiaIDs)
}
