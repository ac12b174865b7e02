package service

import (
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// The scope helpers translate the caller's role into repository filters.
// A false second result means the caller sees nothing.

func academiaScope(actor *models.User) (repository.AcademiaFilter, bool) {
	switch actor.UserType {
	case api.UserTypeAdminSistema:
		return repository.AcademiaFilter{}, true
	case api.UserTypePersonal:
		return repository.AcademiaFilter{PersonalID: &actor.ID}, true
	case api.UserTypeAdmin:
		if actor.AcademiaID != nil {
			return repository.AcademiaFilter{ID: actor.AcademiaID}, true
		}
	}
	return repository.AcademiaFilter{}, false
}

func personalScope(actor *models.User) (repository.PersonalFilter, bool) {
	switch actor.UserType {
	case api.UserTypeAdminSistema:
		return repository.PersonalFilter{}, true
	case api.UserTypeAdmin:
		if actor.AcademiaID != nil {
			return repository.PersonalFilter{AcademiaID: actor.AcademiaID}, true
		}
	}
	return repository.PersonalFilter{}, false
}

func alunoScope(actor *models.User) (repository.AlunoFilter, bool) {
	switch actor.UserType {
	case api.UserTypeAdminSistema:
		return repository.AlunoFilter{}, true
	case api.UserTypePersonal:
		return repository.AlunoFilter{PersonalID: &actor.ID}, true
	case api.UserTypeAdmin:
		if actor.AcademiaID != nil {
			return repository.AlunoFilter{AcademiaID: actor.AcademiaID}, true
		}
	case api.UserTypeAluno:
		return repository.AlunoFilter{UserID: &actor.ID}, true
	}
	return repository.AlunoFilter{}, false
}

func treinoScope(actor *models.User) (repository.TreinoFilter, bool) {
	switch actor.UserType {
	case api.UserTypeAdminSistema:
		return repository.TreinoFilter{}, true
	case api.UserTypePersonal:
		return repository.TreinoFilter{PersonalID: &actor.ID}, true
	case api.UserTypeAdmin:
		if actor.AcademiaID != nil {
			return repository.TreinoFilter{AcademiaID: actor.AcademiaID}, true
		}
	case api.UserTypeAluno:
		return repository.TreinoFilter{AlunoID: &actor.ID}, true
	}
	return repository.TreinoFilter{}, false
}

// narrow applies a caller-supplied filter value on top of a scope value.
// It reports false when both are set and disagree.
func narrow(scope **uint, requested *uint) bool {
	if requested == nil {
		return true
	}
	if *scope != nil && **scope != *requested {
		return false
	}
	v := *requested
	*scope = &v
	return true
}
