package api

import "time"

type Academia struct {
	ID             uint      `json:"id"`
	NomeFantasia   string    `json:"nome_fantasia"`
	CNPJ           string    `json:"cnpj"`
	Endereco       string    `json:"endereco"`
	Telefone       string    `json:"telefone"`
	DataCriacao    time.Time `json:"data_criacao"`
	TotalAlunos    int64     `json:"total_alunos"`
	TotalPersonais int64     `json:"total_personais"`
}

type PersonalTrainer struct {
	ID            uint    `json:"id"`
	User          User    `json:"user"`
	CREF          string  `json:"cref"`
	Especialidade *string `json:"especialidade"`
	Nome          string  `json:"nome"`
	Email         string  `json:"email"`
	TotalAlunos   int64   `json:"total_alunos"`
	TotalTreinos  int64   `json:"total_treinos"`
}

// Aluno is the list representation of a student.
type Aluno struct {
	ID             uint    `json:"id"`
	User           User    `json:"user"`
	UserID         uint    `json:"user_id"`
	Nome           string  `json:"nome"`
	Email          string  `json:"email"`
	DataNascimento *Date   `json:"data_nascimento"`
	Objetivo       *string `json:"objetivo"`
	Academia       *uint   `json:"academia"`
	AcademiaNome   *string `json:"academia_nome"`
	TotalTreinos   int64   `json:"total_treinos"`
	Idade          *int    `json:"idade"`
}

// AlunoDetail is the single-record representation of a student.
type AlunoDetail struct {
	User                UserDetail       `json:"user"`
	PersonalResponsavel *PersonalTrainer `json:"personal_responsavel"`
	Academia            *Academia        `json:"academia"`
	DataNascimento      *Date            `json:"data_nascimento"`
	Objetivo            *string          `json:"objetivo"`
	TotalTreinos        int64            `json:"total_treinos"`
}

// ExercicioSummary is the list representation of a catalog exercise.
type ExercicioSummary struct {
	ID             uint     `json:"id"`
	Nome           string   `json:"nome"`
	Category       *string  `json:"category"`
	Equipment      *string  `json:"equipment"`
	Level          *string  `json:"level"`
	PrimaryMuscles []string `json:"primary_muscles"`
}

type Exercicio struct {
	ID               uint     `json:"id"`
	Nome             string   `json:"nome"`
	Slug             *string  `json:"slug"`
	Force            *string  `json:"force"`
	Level            *string  `json:"level"`
	Mechanic         *string  `json:"mechanic"`
	Equipment        *string  `json:"equipment"`
	Category         *string  `json:"category"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
}

type ItemTreino struct {
	ID          uint             `json:"id"`
	Exercicio   ExercicioSummary `json:"exercicio"`
	Ordem       int              `json:"ordem"`
	Series      int              `json:"series"`
	Repeticoes  string           `json:"repeticoes"`
	CargaKg     *int             `json:"carga_kg"`
	Observacoes *string          `json:"observacoes"`
}

// TreinoSummary is the list representation of a workout plan.
type TreinoSummary struct {
	ID              uint      `json:"id"`
	NomeTreino      string    `json:"nome_treino"`
	Aluno           uint      `json:"aluno"`
	AlunoNome       string    `json:"aluno_nome"`
	PersonalCriador *uint     `json:"personal_criador"`
	PersonalNome    *string   `json:"personal_nome"`
	DataCriacao     time.Time `json:"data_criacao"`
	Ativo           bool      `json:"ativo"`
	TotalExercicios int       `json:"total_exercicios"`
}

type Treino struct {
	ID              uint             `json:"id"`
	NomeTreino      string           `json:"nome_treino"`
	Descricao       *string          `json:"descricao"`
	Aluno           Aluno            `json:"aluno"`
	PersonalCriador *PersonalTrainer `json:"personal_criador"`
	DataCriacao     time.Time        `json:"data_criacao"`
	Ativo           bool             `json:"ativo"`
	Itens           []ItemTreino     `json:"itens"`
}
