package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
)

// AlunoFilter narrows student lookups. Nil fields do not filter.
type AlunoFilter struct {
	UserID     *uint
	PersonalID *uint
	AcademiaID *uint
}

type AlunoRepository interface {
	FirstOrCreate(ctx context.Context, aluno *models.Aluno) error
	FindByUserID(ctx context.Context, userID uint, f AlunoFilter) (*models.Aluno, error)
	// FindAll returns the matching students, newest accounts first.
	FindAll(ctx context.Context, f AlunoFilter) ([]*models.Aluno, error)
	Update(ctx context.Context, aluno *models.Aluno) error
	Delete(ctx context.Context, userID uint) error
	Count(ctx context.Context, f AlunoFilter) (int64, error)
	CountByPersonal(ctx context.Context, personalIDs []uint) (map[uint]int64, error)
	CountByAcademia(ctx context.Context, academiaIDs []uint) (map[uint]int64, error)
}

type alunoRepo struct {
	db *gorm.DB
}

func NewAlunoRepo(db *gorm.DB) AlunoRepository {
	return &alunoRepo{db: db}
}

func (r *alunoRepo) scoped(ctx context.Context, f AlunoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Aluno{}).
		Joins("JOIN users ON users.id = alunos.user_id AND users.deleted_at IS NULL")
	if f.UserID != nil {
		q = q.Where("alunos.user_id = ?", *f.UserID)
	}
	if f.PersonalID != nil {
		q = q.Where("alunos.personal_responsavel_id = ?", *f.PersonalID)
	}
	if f.AcademiaID != nil {
		q = q.Where("alunos.academia_id = ?", *f.AcademiaID)
	}
	return q
}

func (r *alunoRepo) FirstOrCreate(ctx context.Context, aluno *models.Aluno) error {
	return r.db.WithContext(ctx).Omit("User", "Academia", "PersonalResponsavel").
		Where(models.Aluno{UserID: aluno.UserID}).
		FirstOrCreate(aluno).Error
}

func (r *alunoRepo) FindByUserID(ctx context.Context, userID uint, f AlunoFilter) (*models.Aluno, error) {
	var aluno models.Aluno
	err := r.scoped(ctx, f).
		Preload("User").Preload("Academia").Preload("PersonalResponsavel.User").
		Where("alunos.user_id = ?", userID).
		First(&aluno).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &aluno, nil
}

func (r *alunoRepo) FindAll(ctx context.Context, f AlunoFilter) ([]*models.Aluno, error) {
	var alunos []*models.Aluno
	err := r.scoped(ctx, f).
		Preload("User").Preload("Academia").
		Order("users.created_at DESC").Order("alunos.user_id DESC").
		Find(&alunos).Error
	return alunos, err
}

func (r *alunoRepo) Update(ctx context.Context, aluno *models.Aluno) error {
	return r.db.WithContext(ctx).Omit("User", "Academia", "PersonalResponsavel").Save(aluno).Error
}

func (r *alunoRepo) Delete(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Aluno{}, "user_id = ?", userID).Error
}

func (r *alunoRepo) Count(ctx context.Context, f AlunoFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, f).Count(&count).Error
	return count, err
}

func (r *alunoRepo) CountByPersonal(ctx context.Context, personalIDs []uint) (map[uint]int64, error) {
	return countBy(r.db.WithContext(ctx), &models.Aluno{}, "personal_responsavel_id", personalIDs)
}

func (r *alunoRepo) CountByAcademia(ctx context.Context, academiaIDs []uint) (map[uint]int64, error) {
	return countBy(r.db.WithContext(ctx), &models.Aluno{}, "academia_id", academiaIDs)
}
