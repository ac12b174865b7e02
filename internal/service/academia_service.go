package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

type AcademiaService struct {
	repos *repository.Repositories
}

func NewAcademiaService(repos *repository.Repositories) *AcademiaService {
	return &AcademiaService{repos: repos}
}

func (s *AcademiaService) List(ctx context.Context, actor *models.User) ([]api.Academia, error) {
	scope, ok := academiaScope(actor)
	if !ok {
		return []api.Academia{}, nil
	}
	academias, err := s.repos.Academias.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, academias)
}

func (s *AcademiaService) Get(ctx context.Context, actor *models.User, id uint) (*api.Academia, error) {
	academia, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out, err := s.present(ctx, []*models.Academia{academia})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Create is open to system admins and trainers. The creator is recorded as
// responsible for the academia.
func (s *AcademiaService) Create(ctx context.Context, actor *models.User, form api.AcademiaForm) (*api.Academia, error) {
	if actor.UserType != api.UserTypeAdminSistema && actor.UserType != api.UserTypePersonal {
		return nil, ErrForbidden
	}
	if err := validateAcademia(form); err != nil {
		return nil, err
	}
	academia := &models.Academia{
		ResponsavelID: &actor.ID,
		NomeFantasia:  strings.TrimSpace(form.NomeFantasia),
		CNPJ:          strings.TrimSpace(form.CNPJ),
		Endereco:      strings.TrimSpace(form.Endereco),
		Telefone:      strings.TrimSpace(form.Telefone),
	}
	if err := s.ensureUniqueCNPJ(ctx, academia.CNPJ, 0); err != nil {
		return nil, err
	}
	if err := s.repos.Academias.Create(ctx, academia); err != nil {
		return nil, err
	}
	out := toAcademia(academia, 0, 0)
	return &out, nil
}

func (s *AcademiaService) Update(ctx context.Context, actor *models.User, id uint, form api.AcademiaForm) (*api.Academia, error) {
	academia, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateAcademia(form); err != nil {
		return nil, err
	}
	academia.NomeFantasia = strings.TrimSpace(form.NomeFantasia)
	academia.CNPJ = strings.TrimSpace(form.CNPJ)
	academia.Endereco = strings.TrimSpace(form.Endereco)
	academia.Telefone = strings.TrimSpace(form.Telefone)
	if err := s.ensureUniqueCNPJ(ctx, academia.CNPJ, academia.ID); err != nil {
		return nil, err
	}
	if err := s.repos.Academias.Update(ctx, academia); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *AcademiaService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	return s.repos.Academias.Delete(ctx, id)
}

func (s *AcademiaService) find(ctx context.Context, actor *models.User, id uint) (*models.Academia, error) {
	scope, ok := academiaScope(actor)
	if !ok {
		return nil, ErrNotFound
	}
	return s.repos.Academias.FindByID(ctx, id, scope)
}

func (s *AcademiaService) ensureUniqueCNPJ(ctx context.Context, cnpj string, self uint) error {
	existing, err := s.repos.Academias.FindByCNPJ(ctx, cnpj)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return invalid("cnpj", "Já existe uma academia com este CNPJ.")
	}
	return nil
}

func (s *AcademiaService) present(ctx context.Context, academias []*models.Academia) ([]api.Academia, error) {
	ids := make([]uint, len(academias))
	for i, a := range academias {
		ids[i] = a.ID
	}
	alunos, err := s.repos.Alunos.CountByAcademia(ctx, ids)
	if err != nil {
		return nil, err
	}
	personais, err := s.repos.Users.CountPersonaisByAcademia(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]api.Academia, 0, len(academias))
	for _, a := range academias {
		out = append(out, toAcademia(a, alunos[a.ID], personais[a.ID]))
	}
	return out, nil
}

func validateAcademia(form api.AcademiaForm) error {
	verr := &ValidationError{}
	nome := strings.TrimSpace(form.NomeFantasia)
	switch {
	case nome == "":
		verr.Add("nome_fantasia", "Este campo é obrigatório.")
	case tooLong(nome, 100):
		verr.Add("nome_fantasia", "Certifique-se de que este campo não tenha mais de 100 caracteres.")
	}
	cnpj := strings.TrimSpace(form.CNPJ)
	switch {
	case cnpj == "":
		verr.Add("cnpj", "Este campo é obrigatório.")
	case tooLong(cnpj, 18):
		verr.Add("cnpj", "Certifique-se de que este campo não tenha mais de 18 caracteres.")
	}
	if tooLong(form.Endereco, 255) {
		verr.Add("endereco", "Certifique-se de que este campo não tenha mais de 255 caracteres.")
	}
	if tooLong(form.Telefone, 15) {
		verr.Add("telefone", "Certifique-se de que este campo não tenha mais de 15 caracteres.")
	}
	return verr.Err()
}
