package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

func itemPath(collection string, id uint) string {
	return fmt.Sprintf("/%s/%d/", collection, id)
}

func setID(q url.Values, key string, id *uint) {
	if id != nil {
		q.Set(key, strconv.FormatUint(uint64(*id), 10))
	}
}

// AcademiaService covers /academias/.
type AcademiaService struct{ c *Client }

func (s *AcademiaService) List(ctx context.Context) ([]api.Academia, error) {
	var out []api.Academia
	err := s.c.do(ctx, http.MethodGet, "/academias/", nil, nil, &out)
	return out, err
}

func (s *AcademiaService) Get(ctx context.Context, id uint) (*api.Academia, error) {
	var out api.Academia
	if err := s.c.do(ctx, http.MethodGet, itemPath("academias", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AcademiaService) Create(ctx context.Context, form api.AcademiaForm) (*api.Academia, error) {
	var out api.Academia
	if err := s.c.do(ctx, http.MethodPost, "/academias/", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AcademiaService) Update(ctx context.Context, id uint, form api.AcademiaForm) (*api.Academia, error) {
	var out api.Academia
	if err := s.c.do(ctx, http.MethodPut, itemPath("academias", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AcademiaService) Delete(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, itemPath("academias", id), nil, nil, nil)
}

// AlunoListOptions filters the student list.
type AlunoListOptions struct {
	Personal *uint
	Academia *uint
}

// AlunoService covers /alunos/.
type AlunoService struct{ c *Client }

func (s *AlunoService) List(ctx context.Context, opts AlunoListOptions) ([]api.Aluno, error) {
	q := url.Values{}
	setID(q, "personal", opts.Personal)
	setID(q, "academia", opts.Academia)

	var out []api.Aluno
	err := s.c.do(ctx, http.MethodGet, "/alunos/", q, nil, &out)
	return out, err
}

func (s *AlunoService) Get(ctx context.Context, id uint) (*api.AlunoDetail, error) {
	var out api.AlunoDetail
	if err := s.c.do(ctx, http.MethodGet, itemPath("alunos", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlunoService) Create(ctx context.Context, form api.AlunoForm) (*api.AlunoDetail, error) {
	var out api.AlunoDetail
	if err := s.c.do(ctx, http.MethodPost, "/alunos/", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlunoService) Update(ctx context.Context, id uint, form api.AlunoForm) (*api.AlunoDetail, error) {
	var out api.AlunoDetail
	if err := s.c.do(ctx, http.MethodPut, itemPath("alunos", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlunoService) Delete(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, itemPath("alunos", id), nil, nil, nil)
}

// PersonalService covers /personais/.
type PersonalService struct{ c *Client }

func (s *PersonalService) List(ctx context.Context, academia *uint) ([]api.PersonalTrainer, error) {
	q := url.Values{}
	setID(q, "academia", academia)

	var out []api.PersonalTrainer
	err := s.c.do(ctx, http.MethodGet, "/personais/", q, nil, &out)
	return out, err
}

func (s *PersonalService) Get(ctx context.Context, id uint) (*api.PersonalTrainer, error) {
	var out api.PersonalTrainer
	if err := s.c.do(ctx, http.MethodGet, itemPath("personais", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PersonalService) Create(ctx context.Context, form api.PersonalForm) (*api.PersonalTrainer, error) {
	var out api.PersonalTrainer
	if err := s.c.do(ctx, http.MethodPost, "/personais/", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PersonalService) Update(ctx context.Context, id uint, form api.PersonalForm) (*api.PersonalTrainer, error) {
	var out api.PersonalTrainer
	if err := s.c.do(ctx, http.MethodPut, itemPath("personais", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PersonalService) Delete(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, itemPath("personais", id), nil, nil, nil)
}

// TreinoService covers /treinos/.
type TreinoService struct{ c *Client }

func (s *TreinoService) List(ctx context.Context, aluno *uint) ([]api.TreinoSummary, error) {
	q := url.Values{}
	setID(q, "aluno", aluno)

	var out []api.TreinoSummary
	err := s.c.do(ctx, http.MethodGet, "/treinos/", q, nil, &out)
	return out, err
}

func (s *TreinoService) Get(ctx context.Context, id uint) (*api.Treino, error) {
	var out api.Treino
	if err := s.c.do(ctx, http.MethodGet, itemPath("treinos", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TreinoService) Create(ctx context.Context, form api.TreinoForm) (*api.Treino, error) {
	var out api.Treino
	if err := s.c.do(ctx, http.MethodPost, "/treinos/", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TreinoService) Update(ctx context.Context, id uint, form api.TreinoForm) (*api.Treino, error) {
	var out api.Treino
	if err := s.c.do(ctx, http.MethodPut, itemPath("treinos", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TreinoService) Delete(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, itemPath("treinos", id), nil, nil, nil)
}

// ExercicioService covers the read-only exercise catalog.
type ExercicioService struct{ c *Client }

func (s *ExercicioService) List(ctx context.Context) ([]api.ExercicioSummary, error) {
	var out []api.ExercicioSummary
	err := s.c.do(ctx, http.MethodGet, "/exercicios/", nil, nil, &out)
	return out, err
}

func (s *ExercicioService) Get(ctx context.Context, id uint) (*api.Exercicio, error) {
	var out api.Exercicio
	if err := s.c.do(ctx, http.MethodGet, itemPath("exercicios", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ExercicioService) Categorias(ctx context.Context) ([]string, error) {
	var out []string
	err := s.c.do(ctx, http.MethodGet, "/exercicios/categorias/", nil, nil, &out)
	return out, err
}

func (s *ExercicioService) PorCategoria(ctx context.Context, categoria string) ([]api.ExercicioSummary, error) {
	q := url.Values{}
	if categoria != "" {
		q.Set("categoria", categoria)
	}
	var out []api.ExercicioSummary
	err := s.c.do(ctx, http.MethodGet, "/exercicios/por_categoria/", q, nil, &out)
	return out, err
}
