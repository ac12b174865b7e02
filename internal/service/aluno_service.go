package service

import (
	"context"
	"strings"
	"time"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// AlunoListOptions are the optional list filters.
type AlunoListOptions struct {
	PersonalID *uint
	AcademiaID *uint
}

type AlunoService struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewAlunoService(repos *repository.Repositories) *AlunoService {
	return &AlunoService{repos: repos, now: time.Now}
}

func (s *AlunoService) List(ctx context.Context, actor *models.User, opts AlunoListOptions) ([]api.Aluno, error) {
	scope, ok := alunoScope(actor)
	if !ok || !narrow(&scope.PersonalID, opts.PersonalID) || !narrow(&scope.AcademiaID, opts.AcademiaID) {
		return []api.Aluno{}, nil
	}
	alunos, err := s.repos.Alunos.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return presentAlunos(ctx, s.repos, alunos, s.now())
}

func (s *AlunoService) Get(ctx context.Context, actor *models.User, id uint) (*api.AlunoDetail, error) {
	aluno, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	treinos, err := s.repos.Treinos.CountByAluno(ctx, []uint{aluno.UserID})
	if err != nil {
		return nil, err
	}
	out := &api.AlunoDetail{
		User:         toUserDetail(&aluno.User),
		Objetivo:     aluno.Objetivo,
		TotalTreinos: treinos[aluno.UserID],
	}
	if aluno.DataNascimento != nil {
		out.DataNascimento = api.NewDate(*aluno.DataNascimento)
	}
	if aluno.PersonalResponsavel != nil {
		p, err := presentPersonais(ctx, s.repos, []*models.PersonalTrainer{aluno.PersonalResponsavel})
		if err != nil {
			return nil, err
		}
		out.PersonalResponsavel = &p[0]
	}
	if aluno.Academia != nil {
		alunos, err := s.repos.Alunos.CountByAcademia(ctx, []uint{aluno.Academia.ID})
		if err != nil {
			return nil, err
		}
		personais, err := s.repos.Users.CountPersonaisByAcademia(ctx, []uint{aluno.Academia.ID})
		if err != nil {
			return nil, err
		}
		a := toAcademia(aluno.Academia, alunos[aluno.Academia.ID], personais[aluno.Academia.ID])
		out.Academia = &a
	}
	return out, nil
}

// Create registers an ALUNO account with its profile. A trainer creating a
// student becomes its responsible trainer; an academia admin always creates
// students inside its own academia.
func (s *AlunoService) Create(ctx context.Context, actor *models.User, form api.AlunoForm) (*api.AlunoDetail, error) {
	switch actor.UserType {
	case api.UserTypeAdminSistema:
	case api.UserTypePersonal:
		form.PersonalResponsavelID = &actor.ID
	case api.UserTypeAdmin:
		if actor.AcademiaID == nil {
			return nil, ErrForbidden
		}
		form.AcademiaID = actor.AcademiaID
	default:
		return nil, ErrForbidden
	}
	if err := validateObjetivo(form.Objetivo); err != nil {
		return nil, err
	}

	var userID uint
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkAlunoRefs(ctx, tx, form); err != nil {
			return err
		}
		user, err := createAccount(ctx, tx, CreateUserDTO{
			Email:     form.Email,
			Password:  form.Password,
			FirstName: deref(form.FirstName),
			LastName:  deref(form.LastName),
			UserType:  api.UserTypeAluno,
		})
		if err != nil {
			return err
		}
		userID = user.ID
		aluno, err := tx.Alunos.FindByUserID(ctx, user.ID, repository.AlunoFilter{})
		if err != nil {
			return err
		}
		aluno.PersonalResponsavelID = form.PersonalResponsavelID
		aluno.AcademiaID = form.AcademiaID
		applyAlunoFields(aluno, form)
		return tx.Alunos.Update(ctx, aluno)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, userID)
}

// Update changes the profile. Trainers cannot reassign the responsible
// trainer, academia admins cannot move the student to another academia and
// students may only edit their own names, birth date and goal.
func (s *AlunoService) Update(ctx context.Context, actor *models.User, id uint, form api.AlunoForm) (*api.AlunoDetail, error) {
	aluno, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch actor.UserType {
	case api.UserTypePersonal:
		form.PersonalResponsavelID = nil
	case api.UserTypeAdmin:
		form.AcademiaID = nil
	case api.UserTypeAluno:
		form.PersonalResponsavelID = nil
		form.AcademiaID = nil
	}
	if err := validateObjetivo(form.Objetivo); err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkAlunoRefs(ctx, tx, form); err != nil {
			return err
		}
		if form.FirstName != nil || form.LastName != nil {
			user := aluno.User
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
		if form.PersonalResponsavelID != nil {
			aluno.PersonalResponsavelID = form.PersonalResponsavelID
		}
		if form.AcademiaID != nil {
			aluno.AcademiaID = form.AcademiaID
		}
		applyAlunoFields(aluno, form)
		return tx.Alunos.Update(ctx, aluno)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// Delete removes the student profile together with its workouts and
// deactivates the account.
func (s *AlunoService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor.UserType == api.UserTypeAluno {
		return ErrForbidden
	}
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Alunos.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Users.Deactivate(ctx, id)
	})
}

func (s *AlunoService) find(ctx context.Context, actor *models.User, id uint) (*models.Aluno, error) {
	scope, ok := alunoScope(actor)
	if !ok {
		return nil, ErrNotFound
	}
	return s.repos.Alunos.FindByUserID(ctx, id, scope)
}

func presentAlunos(ctx context.Context, repos *repository.Repositories, alunos []*models.Aluno, now time.Time) ([]api.Aluno, error) {
	ids := make([]uint, len(alunos))
	for i, a := range alunos {
		ids[i] = a.UserID
	}
	treinos, err := repos.Treinos.CountByAluno(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]api.Aluno, 0, len(alunos))
	for _, a := range alunos {
		out = append(out, toAluno(a, treinos[a.UserID], now))
	}
	return out, nil
}

func applyAlunoFields(aluno *models.Aluno, form api.AlunoForm) {
	if form.DataNascimento != nil && !form.DataNascimento.IsZero() {
		d := form.DataNascimento.Time
		aluno.DataNascimento = &d
	}
	if form.Objetivo != nil {
		obj := strings.TrimSpace(*form.Objetivo)
		aluno.Objetivo = &obj
	}
}

func checkAlunoRefs(ctx context.Context, tx *repository.Repositories, form api.AlunoForm) error {
	if form.PersonalResponsavelID != nil {
		if _, err := tx.Personais.FindByUserID(ctx, *form.PersonalResponsavelID, repository.PersonalFilter{}); err != nil {
			return invalid("personal_responsavel", "Personal trainer inválido.")
		}
	}
	if form.AcademiaID != nil {
		if _, err := tx.Academias.FindByID(ctx, *form.AcademiaID, repository.AcademiaFilter{}); err != nil {
			return invalid("academia_id", "Academia inválida.")
		}
	}
	return nil
}

func validateObjetivo(objetivo *string) error {
	if objetivo != nil && tooLong(*objetivo, 255) {
		return invalid("objetivo", "Certifique-se de que este campo não tenha mais de 255 caracteres.")
	}
	return nil
}
