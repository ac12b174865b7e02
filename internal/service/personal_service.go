package service

import (
	"context"
	"strings"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

type PersonalService struct {
	repos *repository.Repositories
}

func NewPersonalService(repos *repository.Repositories) *PersonalService {
	return &PersonalService{repos: repos}
}

// List returns the visible trainers, optionally narrowed to one academia.
func (s *PersonalService) List(ctx context.Context, actor *models.User, academiaID *uint) ([]api.PersonalTrainer, error) {
	scope, ok := personalScope(actor)
	if !ok || !narrow(&scope.AcademiaID, academiaID) {
		return []api.PersonalTrainer{}, nil
	}
	personais, err := s.repos.Personais.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, personais)
}

func (s *PersonalService) Get(ctx context.Context, actor *models.User, id uint) (*api.PersonalTrainer, error) {
	personal, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out, err := s.present(ctx, []*models.PersonalTrainer{personal})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Create registers a PERSONAL account with its profile. Academia admins
// always create trainers inside their own academia.
func (s *PersonalService) Create(ctx context.Context, actor *models.User, form api.PersonalForm) (*api.PersonalTrainer, error) {
	academiaID := form.AcademiaID
	switch actor.UserType {
	case api.UserTypeAdminSistema:
	case api.UserTypeAdmin:
		if actor.AcademiaID == nil {
			return nil, ErrForbidden
		}
		academiaID = actor.AcademiaID
	default:
		return nil, ErrForbidden
	}

	cref := strings.TrimSpace(form.CREF)
	if err := validateCREF(cref); err != nil {
		return nil, err
	}

	var userID uint
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if academiaID != nil {
			if _, err := tx.Academias.FindByID(ctx, *academiaID, repository.AcademiaFilter{}); err != nil {
				return invalid("academia_id", "Academia inválida.")
			}
		}
		user, err := createAccount(ctx, tx, CreateUserDTO{
			Email:      form.Email,
			Password:   form.Password,
			FirstName:  deref(form.FirstName),
			LastName:   deref(form.LastName),
			UserType:   api.UserTypePersonal,
			AcademiaID: academiaID,
		})
		if err != nil {
			return err
		}
		userID = user.ID
		personal, err := tx.Personais.FindByUserID(ctx, user.ID, repository.PersonalFilter{})
		if err != nil {
			return err
		}
		return s.apply(ctx, tx, personal, cref, form.Especialidade)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, userID)
}

// Update changes names, cref and especialidade. Email and password are
// never touched here.
func (s *PersonalService) Update(ctx context.Context, actor *models.User, id uint, form api.PersonalForm) (*api.PersonalTrainer, error) {
	personal, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	cref := strings.TrimSpace(form.CREF)
	if cref != "" {
		if err := validateCREF(cref); err != nil {
			return nil, err
		}
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if form.FirstName != nil || form.LastName != nil {
			user := personal.User
			if form.FirstName != nil {
				user.FirstName = strings.TrimSpace(*form.FirstName)
			}
			if form.LastName != nil {
				user.LastName = strings.TrimSpace(*form.LastName)
			}
			if err := tx.Users.Update(ctx, &user); err != nil {
				return err
			}
		}
		return s.apply(ctx, tx, personal, cref, form.Especialidade)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// Delete removes the trainer profile and deactivates the account. Students
// and workouts keep existing without a trainer.
func (s *PersonalService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Personais.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Users.Deactivate(ctx, id)
	})
}

func (s *PersonalService) apply(ctx context.Context, tx *repository.Repositories, personal *models.PersonalTrainer, cref string, especialidade *string) error {
	if cref != "" && cref != personal.CREF {
		taken, err := tx.Personais.CREFTaken(ctx, cref, personal.UserID)
		if err != nil {
			return err
		}
		if taken {
			return invalid("cref", "Já existe um personal trainer com este CREF.")
		}
		personal.CREF = cref
	}
	if especialidade != nil {
		esp := strings.TrimSpace(*especialidade)
		personal.Especialidade = &esp
	}
	return tx.Personais.Update(ctx, personal)
}

func (s *PersonalService) find(ctx context.Context, actor *models.User, id uint) (*models.PersonalTrainer, error) {
	scope, ok := personalScope(actor)
	if !ok {
		return nil, ErrNotFound
	}
	return s.repos.Personais.FindByUserID(ctx, id, scope)
}

func (s *PersonalService) present(ctx context.Context, personais []*models.PersonalTrainer) ([]api.PersonalTrainer, error) {
	return presentPersonais(ctx, s.repos, personais)
}

func presentPersonais(ctx context.Context, repos *repository.Repositories, personais []*models.PersonalTrainer) ([]api.PersonalTrainer, error) {
	ids := make([]uint, len(personais))
	for i, p := range personais {
		ids[i] = p.UserID
	}
	alunos, err := repos.Alunos.CountByPersonal(ctx, ids)
	if err != nil {
		return nil, err
	}
	treinos, err := repos.Treinos.CountByPersonal(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]api.PersonalTrainer, 0, len(personais))
	for _, p := range personais {
		out = append(out, toPersonal(p, alunos[p.UserID], treinos[p.UserID]))
	}
	return out, nil
}

func validateCREF(cref string) error {
	switch {
	case cref == "":
		return invalid("cref", "Este campo é obrigatório.")
	case tooLong(cref, 20):
		return invalid("cref", "Certifique-se de que este campo não tenha mais de 20 caracteres.")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
