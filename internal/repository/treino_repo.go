package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/models"
)

// TreinoFilter narrows workout lookups. Nil fields do not filter; AcademiaID
// matches the academia of the student.
type TreinoFilter struct {
	AlunoID    *uint
	PersonalID *uint
	AcademiaID *uint
	Since      *time.Time
	Until      *time.Time
}

type TreinoRepository interface {
	// Create inserts the workout together with its items.
	Create(ctx context.Context, treino *models.Treino) error
	FindByID(ctx context.Context, id uint, f TreinoFilter) (*models.Treino, error)
	// FindAll returns the matching workouts, newest first, with items,
	// student and creator loaded.
	FindAll(ctx context.Context, f TreinoFilter) ([]*models.Treino, error)
	// Update saves the workout columns and, when replaceItens is set, swaps
	// its items for treino.Itens.
	Update(ctx context.Context, treino *models.Treino, replaceItens bool) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, f TreinoFilter) (int64, error)
	CountByAluno(ctx context.Context, alunoIDs []uint) (map[uint]int64, error)
	CountByPersonal(ctx context.Context, personalIDs []uint) (map[uint]int64, error)
}

type treinoRepo struct {
	db *gorm.DB
}

func NewTreinoRepo(db *gorm.DB) TreinoRepository {
	return &treinoRepo{db: db}
}

func (r *treinoRepo) scoped(ctx context.Context, f TreinoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Treino{})
	if f.AlunoID != nil {
		q = q.Where("treinos.aluno_id = ?", *f.AlunoID)
	}
	if f.PersonalID != nil {
		q = q.Where("treinos.personal_criador_id = ?", *f.PersonalID)
	}
	if f.AcademiaID != nil {
		q = q.Where("treinos.aluno_id IN (?)",
			r.db.Model(&models.Aluno{}).Select("user_id").Where("academia_id = ?", *f.AcademiaID))
	}
	if f.Since != nil {
		q = q.Where("treinos.created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("treinos.created_at < ?", *f.Until)
	}
	return q
}

func (r *treinoRepo) withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Aluno.User").
		Preload("Aluno.Academia").
		Preload("PersonalCriador.User").
		Preload("Itens", func(db *gorm.DB) *gorm.DB {
			return db.Order("itens_treino.ordem, itens_treino.id")
		}).
		Preload("Itens.Exercicio")
}

func (r *treinoRepo) Create(ctx context.Context, treino *models.Treino) error {
	return r.db.WithContext(ctx).
		Omit("Aluno", "PersonalCriador").
		Create(treino).Error
}

func (r *treinoRepo) FindByID(ctx context.Context, id uint, f TreinoFilter) (*models.Treino, error) {
	var treino models.Treino
	err := r.withRelations(r.scoped(ctx, f)).First(&treino, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &treino, nil
}

func (r *treinoRepo) FindAll(ctx context.Context, f TreinoFilter) ([]*models.Treino, error) {
	var treinos []*models.Treino
	err := r.withRelations(r.scoped(ctx, f)).
		Order("treinos.created_at DESC").Order("treinos.id DESC").
		Find(&treinos).Error
	return treinos, err
}

func (r *treinoRepo) Update(ctx context.Context, treino *models.Treino, replaceItens bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(treino).Select("AlunoID", "PersonalCriadorID", "NomeTreino", "Descricao", "Ativo").
			Updates(treino).Error
		if err != nil {
			return err
		}
		if !replaceItens {
			return nil
		}
		if err := tx.Unscoped().Where("treino_id = ?", treino.ID).Delete(&models.ItemTreino{}).Error; err != nil {
			return err
		}
		if len(treino.Itens) == 0 {
			return nil
		}
		for i := range treino.Itens {
			treino.Itens[i].ID = 0
			treino.Itens[i].TreinoID = treino.ID
		}
		return tx.Omit("Exercicio").Create(&treino.Itens).Error
	})
}

func (r *treinoRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Treino{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *treinoRepo) Count(ctx context.Context, f TreinoFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, f).Count(&count).Error
	return count, err
}

func (r *treinoRepo) CountByAluno(ctx context.Context, alunoIDs []uint) (map[uint]int64, error) {
	return countBy(r.db.WithContext(ctx), &models.Treino{}, "aluno_id", alunoIDs)
}

func (r *treinoRepo) CountByPersonal(ctx context.Context, personalIDs []uint) (map[uint]int64, error) {
	return countBy(r.db.WithContext(ctx), &models.Treino{}, "personal_criador_id", personalIDs)
}
