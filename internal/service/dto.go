package service

import (
	"time"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// ImportedExercicio is one entry of the exercise catalog JSON file.
type ImportedExercicio struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Force            *string  `json:"force"`
	Level            *string  `json:"level"`
	Mechanic         *string  `json:"mechanic"`
	Equipment        *string  `json:"equipment"`
	Category         *string  `json:"category"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int
	Updated int
	Failed  int
}

// CreateUserDTO carries the fields of an account created outside the
// resource endpoints (admin command line).
type CreateUserDTO struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	UserType   api.UserType
	AcademiaID *uint
}

func toUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
		IsActive:  u.IsActive,
	}
}

func toUserDetail(u *models.User) api.UserDetail {
	return api.UserDetail{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		UserType:   u.UserType,
		FullName:   u.FullName(),
		DateJoined: u.CreatedAt,
	}
}

func toAcademia(a *models.Academia, alunos, personais int64) api.Academia {
	return api.Academia{
		ID:             a.ID,
		NomeFantasia:   a.NomeFantasia,
		CNPJ:           a.CNPJ,
		Endereco:       a.Endereco,
		Telefone:       a.Telefone,
		DataCriacao:    a.CreatedAt,
		TotalAlunos:    alunos,
		TotalPersonais: personais,
	}
}

func toPersonal(p *models.PersonalTrainer, alunos, treinos int64) api.PersonalTrainer {
	return api.PersonalTrainer{
		ID:            p.UserID,
		User:          toUser(&p.User),
		CREF:          p.CREF,
		Especialidade: p.Especialidade,
		Nome:          p.User.FullName(),
		Email:         p.User.Email,
		TotalAlunos:   alunos,
		TotalTreinos:  treinos,
	}
}

func toAluno(a *models.Aluno, treinos int64, now time.Time) api.Aluno {
	out := api.Aluno{
		ID:           a.UserID,
		User:         toUser(&a.User),
		UserID:       a.UserID,
		Nome:         a.User.FullName(),
		Email:        a.User.Email,
		Objetivo:     a.Objetivo,
		Academia:     a.AcademiaID,
		TotalTreinos: treinos,
	}
	if a.Academia != nil {
		nome := a.Academia.NomeFantasia
		out.AcademiaNome = &nome
	}
	if a.DataNascimento != nil {
		d := api.NewDate(*a.DataNascimento)
		age := d.Age(now)
		out.DataNascimento = d
		out.Idade = &age
	}
	return out
}

func toExercicioSummary(e *models.Exercicio) api.ExercicioSummary {
	return api.ExercicioSummary{
		ID:             e.ID,
		Nome:           e.Nome,
		Category:       e.Category,
		Equipment:      e.Equipment,
		Level:          e.Level,
		PrimaryMuscles: nonNil(e.PrimaryMuscles),
	}
}

func toExercicio(e *models.Exercicio) api.Exercicio {
	return api.Exercicio{
		ID:               e.ID,
		Nome:             e.Nome,
		Slug:             e.Slug,
		Force:            e.Force,
		Level:            e.Level,
		Mechanic:         e.Mechanic,
		Equipment:        e.Equipment,
		Category:         e.Category,
		PrimaryMuscles:   nonNil(e.PrimaryMuscles),
		SecondaryMuscles: nonNil(e.SecondaryMuscles),
		Instructions:     nonNil(e.Instructions),
		Images:           nonNil(e.Images),
	}
}

func toTreinoSummary(t *models.Treino) api.TreinoSummary {
	out := api.TreinoSummary{
		ID:              t.ID,
		NomeTreino:      t.NomeTreino,
		Aluno:           t.AlunoID,
		AlunoNome:       t.Aluno.User.FullName(),
		PersonalCriador: t.PersonalCriadorID,
		DataCriacao:     t.CreatedAt,
		Ativo:           t.Ativo,
		TotalExercicios: len(t.Itens),
	}
	if t.PersonalCriador != nil {
		nome := t.PersonalCriador.User.FullName()
		out.PersonalNome = &nome
	}
	return out
}

func toTreino(t *models.Treino, now time.Time) api.Treino {
	out := api.Treino{
		ID:          t.ID,
		NomeTreino:  t.NomeTreino,
		Descricao:   t.Descricao,
		Aluno:       toAluno(&t.Aluno, 0, now),
		DataCriacao: t.CreatedAt,
		Ativo:       t.Ativo,
		Itens:       make([]api.ItemTreino, 0, len(t.Itens)),
	}
	if t.PersonalCriador != nil {
		p := toPersonal(t.PersonalCriador, 0, 0)
		out.PersonalCriador = &p
	}
	for i := range t.Itens {
		it := &t.Itens[i]
		out.Itens = append(out.Itens, api.ItemTreino{
			ID:          it.ID,
			Exercicio:   toExercicioSummary(&it.Exercicio),
			Ordem:       it.Ordem,
			Series:      it.Series,
			Repeticoes:  it.Repeticoes,
			CargaKg:     it.CargaKg,
			Observacoes: it.Observacoes,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
