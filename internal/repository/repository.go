// Package repository holds the gorm-backed data access for every aggregate.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Repositories bundles one repository per aggregate so services can run
// several writes in a single transaction.
type Repositories struct {
	Users      UserRepository
	Academias  AcademiaRepository
	Personais  PersonalRepository
	Alunos     AlunoRepository
	Exercicios ExercicioRepository
	Treinos    TreinoRepository

	db *gorm.DB
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepo(db),
		Academias:  NewAcademiaRepo(db),
		Personais:  NewPersonalRepo(db),
		Alunos:     NewAlunoRepo(db),
		Exercicios: NewExercicioRepo(db),
		Treinos:    NewTreinoRepo(db),
		db:         db,
	}
}

// Transaction runs fn with repositories bound to one database transaction.
// Without a database (in-memory test doubles) fn runs directly on r.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type idCount struct {
	ID    uint
	Total int64
}

// countBy groups rows of model by column, restricted to ids.
func countBy(db *gorm.DB, model interface{}, column string, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idCount
	err := db.Model(model).
		Select(column+" AS id, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Total
	}
	return out, nil
}
