package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

type TreinoService struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewTreinoService(repos *repository.Repositories) *TreinoService {
	return &TreinoService{repos: repos, now: time.Now}
}

// List returns the visible workouts, optionally narrowed to one student.
func (s *TreinoService) List(ctx context.Context, actor *models.User, alunoID *uint) ([]api.TreinoSummary, error) {
	scope, ok := treinoScope(actor)
	if !ok || !narrow(&scope.AlunoID, alunoID) {
		return []api.TreinoSummary{}, nil
	}
	treinos, err := s.repos.Treinos.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]api.TreinoSummary, 0, len(treinos))
	for _, t := range treinos {
		out = append(out, toTreinoSummary(t))
	}
	return out, nil
}

func (s *TreinoService) Get(ctx context.Context, actor *models.User, id uint) (*api.Treino, error) {
	treino, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toTreino(treino, s.now())
	return &out, nil
}

// Create stores a workout for a student visible to the caller. A trainer
// is recorded as its creator.
func (s *TreinoService) Create(ctx context.Context, actor *models.User, form api.TreinoForm) (*api.Treino, error) {
	if actor.UserType == api.UserTypeAluno {
		return nil, ErrForbidden
	}
	if _, ok := treinoScope(actor); !ok {
		return nil, ErrForbidden
	}
	itens, err := s.validate(ctx, actor, form, true)
	if err != nil {
		return nil, err
	}
	treino := &models.Treino{
		AlunoID:    form.AlunoID,
		NomeTreino: strings.TrimSpace(form.NomeTreino),
		Descricao:  form.Descricao,
		Ativo:      form.Ativo == nil || *form.Ativo,
		Itens:      itens,
	}
	if actor.UserType == api.UserTypePersonal {
		treino.PersonalCriadorID = &actor.ID
	}
	if err := s.repos.Treinos.Create(ctx, treino); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, treino.ID)
}

// Update changes the workout fields. Items are replaced only when the form
// carries them.
func (s *TreinoService) Update(ctx context.Context, actor *models.User, id uint, form api.TreinoForm) (*api.Treino, error) {
	if actor.UserType == api.UserTypeAluno {
		return nil, ErrForbidden
	}
	treino, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if form.AlunoID == 0 {
		form.AlunoID = treino.AlunoID
	}
	if strings.TrimSpace(form.NomeTreino) == "" {
		form.NomeTreino = treino.NomeTreino
	}
	replace := form.Itens != nil
	itens, err := s.validate(ctx, actor, form, replace)
	if err != nil {
		return nil, err
	}
	treino.AlunoID = form.AlunoID
	treino.NomeTreino = strings.TrimSpace(form.NomeTreino)
	if form.Descricao != nil {
		treino.Descricao = form.Descricao
	}
	if form.Ativo != nil {
		treino.Ativo = *form.Ativo
	}
	if replace {
		treino.Itens = itens
	}
	if err := s.repos.Treinos.Update(ctx, treino, replace); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *TreinoService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor.UserType == api.UserTypeAluno {
		return ErrForbidden
	}
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	return s.repos.Treinos.Delete(ctx, id)
}

func (s *TreinoService) find(ctx context.Context, actor *models.User, id uint) (*models.Treino, error) {
	scope, ok := treinoScope(actor)
	if !ok {
		return nil, ErrNotFound
	}
	return s.repos.Treinos.FindByID(ctx, id, scope)
}

// validate checks the form and builds the items in order.
func (s *TreinoService) validate(ctx context.Context, actor *models.User, form api.TreinoForm, withItens bool) ([]models.ItemTreino, error) {
	verr := &ValidationError{}
	nome := strings.TrimSpace(form.NomeTreino)
	switch {
	case nome == "":
		verr.Add("nome_treino", "Este campo é obrigatório.")
	case tooLong(nome, 50):
		verr.Add("nome_treino", "Certifique-se de que este campo não tenha mais de 50 caracteres.")
	}

	if form.AlunoID == 0 {
		verr.Add("aluno_id", "Este campo é obrigatório.")
	} else if scope, ok := alunoScope(actor); ok {
		_, err := s.repos.Alunos.FindByUserID(ctx, form.AlunoID, scope)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			verr.Add("aluno_id", "Aluno inválido.")
		case err != nil:
			return nil, err
		}
	} else {
		verr.Add("aluno_id", "Aluno inválido.")
	}

	if !withItens {
		return nil, verr.Err()
	}

	ids := make([]uint, 0, len(form.Itens))
	seen := make(map[uint]bool, len(form.Itens))
	for i, it := range form.Itens {
		field := fmt.Sprintf("itens[%d]", i)
		if it.ExercicioID == 0 {
			verr.Add(field+".exercicio_id", "Este campo é obrigatório.")
		} else if seen[it.ExercicioID] {
			verr.Add(field+".exercicio_id", "Exercício repetido no mesmo treino.")
		}
		seen[it.ExercicioID] = true
		ids = append(ids, it.ExercicioID)
		if it.Series <= 0 {
			verr.Add(field+".series", "Certifique-se de que este valor seja maior ou igual a 1.")
		}
		reps := strings.TrimSpace(it.Repeticoes)
		switch {
		case reps == "":
			verr.Add(field+".repeticoes", "Este campo é obrigatório.")
		case tooLong(reps, 20):
			verr.Add(field+".repeticoes", "Certifique-se de que este campo não tenha mais de 20 caracteres.")
		}
		if it.CargaKg != nil && *it.CargaKg < 0 {
			verr.Add(field+".carga_kg", "Certifique-se de que este valor seja maior ou igual a 0.")
		}
		if it.Observacoes != nil && tooLong(*it.Observacoes, 200) {
			verr.Add(field+".observacoes", "Certifique-se de que este campo não tenha mais de 200 caracteres.")
		}
	}

	found, err := s.repos.Exercicios.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(found))
	for _, e := range found {
		known[e.ID] = true
	}
	itens := make([]models.ItemTreino, 0, len(form.Itens))
	for i, it := range form.Itens {
		if it.ExercicioID != 0 && !known[it.ExercicioID] {
			verr.Add(fmt.Sprintf("itens[%d].exercicio_id", i), "Exercício inválido.")
		}
		itens = append(itens, models.ItemTreino{
			ExercicioID: it.ExercicioID,
			Ordem:       i + 1,
			Series:      it.Series,
			Repeticoes:  strings.TrimSpace(it.Repeticoes),
			CargaKg:     it.CargaKg,
			Observacoes: it.Observacoes,
		})
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return itens, nil
}
