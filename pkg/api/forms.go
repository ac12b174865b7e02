package api

type AcademiaForm struct {
	NomeFantasia string `json:"nome_fantasia"`
	CNPJ         string `json:"cnpj"`
	Endereco     string `json:"endereco"`
	Telefone     string `json:"telefone"`
}

// PersonalForm creates a trainer account. Email and Password are ignored on
// update.
type PersonalForm struct {
	Email         string  `json:"email,omitempty"`
	Password      string  `json:"password,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	CREF          string  `json:"cref"`
	Especialidade *string `json:"especialidade,omitempty"`
	AcademiaID    *uint   `json:"academia_id,omitempty"`
}

// AlunoForm creates a student account. Email and Password are ignored on
// update.
type AlunoForm struct {
	Email                 string  `json:"email,omitempty"`
	Password              string  `json:"password,omitempty"`
	FirstName             *string `json:"first_name,omitempty"`
	LastName              *string `json:"last_name,omitempty"`
	PersonalResponsavelID *uint   `json:"personal_responsavel,omitempty"`
	AcademiaID            *uint   `json:"academia_id,omitempty"`
	DataNascimento        *Date   `json:"data_nascimento,omitempty"`
	Objetivo              *string `json:"objetivo,omitempty"`
}

type ItemTreinoForm struct {
	ExercicioID uint    `json:"exercicio_id"`
	Series      int     `json:"series"`
	Repeticoes  string  `json:"repeticoes"`
	CargaKg     *int    `json:"carga_kg,omitempty"`
	Observacoes *string `json:"observacoes,omitempty"`
}

// TreinoForm creates or updates a workout plan. A nil Itens on update keeps
// the current items.
type TreinoForm struct {
	NomeTreino string           `json:"nome_treino"`
	Descricao  *string          `json:"descricao,omitempty"`
	AlunoID    uint             `json:"aluno_id"`
	Ativo      *bool            `json:"ativo,omitempty"`
	Itens      []ItemTreinoForm `json:"itens"`
}
