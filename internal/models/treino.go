package models

import "gorm.io/gorm"

// Exercicio is a catalog exercise. The list columns are stored as JSON.
type Exercicio struct {
	gorm.Model
	Nome             string   `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug             *string  `gorm:"type:varchar(100);uniqueIndex"`
	Force            *string  `gorm:"type:varchar(50)"`
	Level            *string  `gorm:"type:varchar(50)"`
	Mechanic         *string  `gorm:"type:varchar(50)"`
	Equipment        *string  `gorm:"type:varchar(100)"`
	Category         *string  `gorm:"type:varchar(50);index"`
	PrimaryMuscles   []string `gorm:"serializer:json"`
	SecondaryMuscles []string `gorm:"serializer:json"`
	Instructions     []string `gorm:"serializer:json"`
	Images           []string `gorm:"serializer:json"`
}

// CategoryOr returns the category or fallback when it is unset.
func (e *Exercicio) CategoryOr(fallback string) string {
	if e.Category == nil || *e.Category == "" {
		return fallback
	}
	return *e.Category
}

// Treino is a workout plan assigned to one student.
type Treino struct {
	gorm.Model
	AlunoID           uint             `gorm:"not null;index"`
	Aluno             Aluno            `gorm:"foreignKey:AlunoID;references:UserID;constraint:OnDelete:CASCADE"`
	PersonalCriadorID *uint            `gorm:"index"`
	PersonalCriador   *PersonalTrainer `gorm:"foreignKey:PersonalCriadorID;references:UserID;constraint:OnDelete:SET NULL"`
	NomeTreino        string           `gorm:"type:varchar(50);not null"`
	Descricao         *string          `gorm:"type:text"`
	Ativo             bool             `gorm:"not null;default:true"`
	Itens             []ItemTreino     `gorm:"foreignKey:TreinoID;constraint:OnDelete:CASCADE"`
}

// ItemTreino is one line of a workout plan.
type ItemTreino struct {
	gorm.Model
	TreinoID    uint      `gorm:"not null;uniqueIndex:idx_treino_exercicio"`
	ExercicioID uint      `gorm:"not null;uniqueIndex:idx_treino_exercicio"`
	Exercicio   Exercicio `gorm:"foreignKey:ExercicioID;constraint:OnDelete:CASCADE"`
	Ordem       int       `gorm:"not null;default:0"`
	Series      int       `gorm:"not null"`
	Repeticoes  string    `gorm:"type:varchar(20);not null"`
	CargaKg     *int
	Observacoes *string `gorm:"type:varchar(200)"`
}

// All returns every model for migrations, parents first.
func All() []interface{} {
	return []interface{}{
		&Academia{},
		&User{},
		&PersonalTrainer{},
		&Aluno{},
		&Exercicio{},
		&Treino{},
		&ItemTreino{},
	}
}

func (Exercicio) TableName() string  { return "exercicios" }
func (Treino) TableName() string     { return "treinos" }
func (ItemTreino) TableName() string { return "itens_treino" }
