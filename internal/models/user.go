// Package models contains the gorm models persisted in PostgreSQL.
package models

import (
	"strings"

	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

type User struct {
	gorm.Model
	Email        string       `gorm:"type:varchar(254);uniqueIndex;not null"`
	Username     string       `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string       `gorm:"not null"`
	FirstName    string       `gorm:"type:varchar(150)"`
	LastName     string       `gorm:"type:varchar(150)"`
	UserType     api.UserType `gorm:"type:varchar(20);not null;default:'ALUNO';index"`
	AcademiaID   *uint        `gorm:"index"`
	Academia     *Academia    `gorm:"foreignKey:AcademiaID;constraint:OnDelete:SET NULL"`
	IsActive     bool         `gorm:"not null;default:true"`
}

// FullName mirrors the first/last join used everywhere a name is shown.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName falls back to the email when the user has no name.
func (u *User) DisplayName() string {
	if n := u.FullName(); n != "" {
		return n
	}
	return u.Email
}
