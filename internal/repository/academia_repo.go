package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
)

// AcademiaFilter narrows academia lookups. PersonalID keeps the academias
// where that trainer has students.
type AcademiaFilter struct {
	ID         *uint
	PersonalID *uint
}

type AcademiaRepository interface {
	Create(ctx context.Context, academia *models.Academia) error
	FindByID(ctx context.Context, id uint, f AcademiaFilter) (*models.Academia, error)
	FindAll(ctx context.Context, f AcademiaFilter) ([]*models.Academia, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*models.Academia, error)
	Update(ctx context.Context, academia *models.Academia) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, f AcademiaFilter) (int64, error)
}

type academiaRepo struct {
	db *gorm.DB
}

func NewAcademiaRepo(db *gorm.DB) AcademiaRepository {
	return &academiaRepo{db: db}
}

func (r *academiaRepo) scoped(ctx context.Context, f AcademiaFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Academia{})
	if f.ID != nil {
		q = q.Where("academias.id = ?", *f.ID)
	}
	if f.PersonalID != nil {
		q = q.Where("academias.id IN (?)",
			r.db.Model(&models.Aluno{}).Select("academia_id").
				Where("personal_responsavel_id = ? AND academia_id IS NOT NULL", *f.PersonalID))
	}
	return q
}

func (r *academiaRepo) Create(ctx context.Context, academia *models.Academia) error {
	return r.db.WithContext(ctx).Create(academia).Error
}

func (r *academiaRepo) FindByID(ctx context.Context, id uint, f AcademiaFilter) (*models.Academia, error) {
	var academia models.Academia
	err := r.scoped(ctx, f).First(&academia, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &academia, nil
}

func (r *academiaRepo) FindAll(ctx context.Context, f AcademiaFilter) ([]*models.Academia, error) {
	var academias []*models.Academia
	err := r.scoped(ctx, f).Order("academias.id").Find(&academias).Error
	return academias, err
}

func (r *academiaRepo) FindByCNPJ(ctx context.Context, cnpj string) (*models.Academia, error) {
	var academia models.Academia
	err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&academia).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &academia, nil
}

func (r *academiaRepo) Update(ctx context.Context, academia *models.Academia) error {
	return r.db.WithContext(ctx).Save(academia).Error
}

// Delete removes the row for good so the CNPJ can be registered again.
func (r *academiaRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&models.Academia{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *academiaRepo) Count(ctx context.Context, f AcademiaFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, f).Count(&count).Error
	return count, err
}
