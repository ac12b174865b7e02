package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
)

// PersonalFilter narrows trainer lookups by the academia of the trainer's
// account.
type PersonalFilter struct {
	AcademiaID *uint
}

type PersonalRepository interface {
	FirstOrCreate(ctx context.Context, personal *models.PersonalTrainer) error
	FindByUserID(ctx context.Context, userID uint, f PersonalFilter) (*models.PersonalTrainer, error)
	FindAll(ctx context.Context, f PersonalFilter) ([]*models.PersonalTrainer, error)
	// CREFTaken reports whether another trainer already uses cref.
	CREFTaken(ctx context.Context, cref string, exceptUserID uint) (bool, error)
	Update(ctx context.Context, personal *models.PersonalTrainer) error
	Delete(ctx context.Context, userID uint) error
	Count(ctx context.Context, f PersonalFilter) (int64, error)
}

type personalRepo struct {
	db *gorm.DB
}

func NewPersonalRepo(db *gorm.DB) PersonalRepository {
	return &personalRepo{db: db}
}

func (r *personalRepo) scoped(ctx context.Context, f PersonalFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.PersonalTrainer{}).
		Joins("JOIN users ON users.id = personal_trainers.user_id AND users.deleted_at IS NULL")
	if f.AcademiaID != nil {
		q = q.Where("users.academia_id = ?", *f.AcademiaID)
	}
	return q
}

// FirstOrCreate keeps an existing profile untouched and otherwise inserts
// personal as given.
func (r *personalRepo) FirstOrCreate(ctx context.Context, personal *models.PersonalTrainer) error {
	return r.db.WithContext(ctx).Omit("User").
		Where(models.PersonalTrainer{UserID: personal.UserID}).
		Attrs(models.PersonalTrainer{CREF: personal.CREF, Especialidade: personal.Especialidade}).
		FirstOrCreate(personal).Error
}

func (r *personalRepo) FindByUserID(ctx context.Context, userID uint, f PersonalFilter) (*models.PersonalTrainer, error) {
	var personal models.PersonalTrainer
	err := r.scoped(ctx, f).Preload("User").
		Where("personal_trainers.user_id = ?", userID).
		First(&personal).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &personal, nil
}

func (r *personalRepo) FindAll(ctx context.Context, f PersonalFilter) ([]*models.PersonalTrainer, error) {
	var personais []*models.PersonalTrainer
	err := r.scoped(ctx, f).Preload("User").Order("personal_trainers.user_id").Find(&personais).Error
	return personais, err
}

func (r *personalRepo) CREFTaken(ctx context.Context, cref string, exceptUserID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PersonalTrainer{}).
		Where("cref = ? AND user_id <> ?", cref, exceptUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *personalRepo) Update(ctx context.Context, personal *models.PersonalTrainer) error {
	return r.db.WithContext(ctx).Omit("User").Save(personal).Error
}

func (r *personalRepo) Delete(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Delete(&models.PersonalTrainer{}, "user_id = ?", userID).Error
}

func (r *personalRepo) Count(ctx context.Context, f PersonalFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, f).Count(&count).Error
	return count, err
}
