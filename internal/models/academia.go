package models

import (
	"time"

	"gorm.io/gorm"
)

type Academia struct {
	gorm.Model
	ResponsavelID *uint  `gorm:"index"`
	NomeFantasia  string `gorm:"type:varchar(100);not null"`
	CNPJ          string `gorm:"column:cnpj;type:varchar(18);uniqueIndex;not null"`
	Endereco      string `gorm:"type:varchar(255)"`
	Telefone      string `gorm:"type:varchar(15)"`
}

// PersonalTrainer is the trainer profile of a PERSONAL user.
type PersonalTrainer struct {
	UserID        uint    `gorm:"primaryKey;autoIncrement:false"`
	User          User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CREF          string  `gorm:"column:cref;type:varchar(20);uniqueIndex;not null"`
	Especialidade *string `gorm:"type:varchar(100)"`
}

// Aluno is the student profile of an ALUNO user.
type Aluno struct {
	UserID                uint             `gorm:"primaryKey;autoIncrement:false"`
	User                  User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PersonalResponsavelID *uint            `gorm:"index"`
	PersonalResponsavel   *PersonalTrainer `gorm:"foreignKey:PersonalResponsavelID;references:UserID;constraint:OnDelete:SET NULL"`
	AcademiaID            *uint            `gorm:"index"`
	Academia              *Academia        `gorm:"foreignKey:AcademiaID;constraint:OnDelete:SET NULL"`
	DataNascimento        *time.Time       `gorm:"type:date"`
	Objetivo              *string          `gorm:"type:varchar(255)"`
}

func (Academia) TableName() string        { return "academias" }
func (PersonalTrainer) TableName() string { return "personal_trainers" }
func (Aluno) TableName() string           { return "alunos" }
