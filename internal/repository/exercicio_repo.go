package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
)

type ExercicioRepository interface {
	FindAll(ctx context.Context) ([]*models.Exercicio, error)
	FindByID(ctx context.Context, id uint) (*models.Exercicio, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*models.Exercicio, error)
	FindByCategoria(ctx context.Context, categoria string) ([]*models.Exercicio, error)
	Categorias(ctx context.Context) ([]string, error)
	// Upsert matches on Nome and reports whether a row was inserted.
	Upsert(ctx context.Context, exercicio *models.Exercicio) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type exercicioRepo struct {
	db *gorm.DB
}

func NewExercicioRepo(db *gorm.DB) ExercicioRepository {
	return &exercicioRepo{db: db}
}

func (r *exercicioRepo) FindAll(ctx context.Context) ([]*models.Exercicio, error) {
	var exercicios []*models.Exercicio
	err := r.db.WithContext(ctx).Order("nome").Find(&exercicios).Error
	return exercicios, err
}

func (r *exercicioRepo) FindByID(ctx context.Context, id uint) (*models.Exercicio, error) {
	var exercicio models.Exercicio
	err := r.db.WithContext(ctx).First(&exercicio, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &exercicio, nil
}

func (r *exercicioRepo) FindByIDs(ctx context.Context, ids []uint) ([]*models.Exercicio, error) {
	var exercicios []*models.Exercicio
	if len(ids) == 0 {
		return exercicios, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&exercicios).Error
	return exercicios, err
}

func (r *exercicioRepo) FindByCategoria(ctx context.Context, categoria string) ([]*models.Exercicio, error) {
	var exercicios []*models.Exercicio
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", categoria).
		Order("nome").
		Find(&exercicios).Error
	return exercicios, err
}

func (r *exercicioRepo) Categorias(ctx context.Context) ([]string, error) {
	var categorias []string
	err := r.db.WithContext(ctx).Model(&models.Exercicio{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().Order("category").
		Pluck("category", &categorias).Error
	return categorias, err
}

func (r *exercicioRepo) Upsert(ctx context.Context, exercicio *models.Exercicio) (bool, error) {
	var existing models.Exercicio
	err := r.db.WithContext(ctx).Where("nome = ?", exercicio.Nome).First(&existing).Error
	switch {
	case err == nil:
		exercicio.Model = existing.Model
		return false, r.db.WithContext(ctx).Save(exercicio).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, r.db.WithContext(ctx).Create(exercicio).Error
	default:
		return false, err
	}
}

func (r *exercicioRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Exercicio{}).Count(&count).Error
	return count, err
}
