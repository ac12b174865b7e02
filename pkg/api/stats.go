package api

import "time"

// Periodo is the look-back window accepted by the report endpoints.
type Periodo string

const (
	PeriodoSemana    Periodo = "semana"
	PeriodoMes       Periodo = "mes"
	PeriodoTrimestre Periodo = "trimestre"
	PeriodoAno       Periodo = "ano"
)

// ParsePeriodo maps the query value to a Periodo. Anything unknown, including
// the empty string, means PeriodoMes.
func ParsePeriodo(s string) Periodo {
	switch Periodo(s) {
	case PeriodoSemana, PeriodoTrimestre, PeriodoAno:
		return Periodo(s)
	}
	return PeriodoMes
}

// Days is the window length.
func (p Periodo) Days() int {
	switch p {
	case PeriodoSemana:
		return 7
	case PeriodoTrimestre:
		return 90
	case PeriodoAno:
		return 365
	}
	return 30
}

// Since returns the start of the window ending at now.
func (p Periodo) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.Days())
}

// ReportFilter carries the optional report parameters.
type ReportFilter struct {
	Periodo    Periodo
	AlunoID    *uint
	AcademiaID *uint
}

type MonthCount struct {
	Mes     string `json:"mes"`
	Treinos int    `json:"treinos"`
}

type ExercicioCount struct {
	Nome  string `json:"exercicio__nome"`
	Total int    `json:"total"`
}

type PersonalDashboard struct {
	TotalAlunos    int64            `json:"total_alunos"`
	TotalAcademias int64            `json:"total_academias"`
	TotalTreinos   int64            `json:"total_treinos"`
	TaxaAtividade  float64          `json:"taxa_atividade"`
	TreinosPorMes  []MonthCount     `json:"treinos_por_mes"`
	TopExercicios  []ExercicioCount `json:"top_exercicios"`
	AlunosRecentes []Aluno          `json:"alunos_recentes"`
}

type AlunoDashboard struct {
	TotalTreinos      int64           `json:"total_treinos"`
	TreinosAtivos     int64           `json:"treinos_ativos"`
	SequenciaDias     int             `json:"sequencia_dias"`
	TempoTotalMinutos int             `json:"tempo_total_minutos"`
	MetaSemanalAtual  int             `json:"meta_semanal_atual"`
	MetaSemanalTotal  int             `json:"meta_semanal_total"`
	Treinos           []TreinoSummary `json:"treinos"`
}

type AcademiaDashboard struct {
	TotalAlunos    int64             `json:"total_alunos"`
	TotalPersonais int64             `json:"total_personais"`
	TotalTreinos   int64             `json:"total_treinos"`
	TaxaRetencao   float64           `json:"taxa_retencao"`
	Personais      []PersonalTrainer `json:"personais"`
}

type UserGrowth struct {
	Mes       string `json:"mes"`
	Alunos    int    `json:"alunos"`
	Personais int    `json:"personais"`
	Academias int    `json:"academias,omitempty"`
}

type AdminDashboard struct {
	TotalUsuarios       int64        `json:"total_usuarios"`
	TotalAcademias      int64        `json:"total_academias"`
	TotalPersonais      int64        `json:"total_personais"`
	TotalAlunos         int64        `json:"total_alunos"`
	TotalTreinos        int64        `json:"total_treinos"`
	CrescimentoUsuarios []UserGrowth `json:"crescimento_usuarios"`
	VolumeTreinos       []MonthCount `json:"volume_treinos"`
	TopAcademias        []Academia   `json:"top_academias"`
}

type MonthActivity struct {
	Mes     string `json:"mes"`
	Treinos int    `json:"treinos"`
	Alunos  int    `json:"alunos"`
}

// WeekLoad holds the average load per exercise for one week. Keys other
// than "semana" are exercise names.
type WeekLoad map[string]any

type CategoryShare struct {
	Nome  string `json:"nome"`
	Valor int    `json:"valor"`
	Cor   string `json:"cor"`
}

type WeekdayCount struct {
	Dia    string `json:"dia"`
	Alunos int    `json:"alunos"`
}

type TopExercicio struct {
	Exercicio string `json:"exercicio"`
	Vezes     int    `json:"vezes"`
	Categoria string `json:"categoria"`
}

type AlunoStats struct {
	ID           uint    `json:"id"`
	Nome         string  `json:"nome"`
	Treinos      int     `json:"treinos"`
	Frequencia   float64 `json:"frequencia"`
	UltimoTreino *string `json:"ultimoTreino"`
}

type PersonalReport struct {
	TreinosCriados         int             `json:"treinos_criados"`
	VariacaoTreinos        float64         `json:"variacao_treinos"`
	TaxaFrequencia         float64         `json:"taxa_frequencia"`
	VariacaoFrequencia     float64         `json:"variacao_frequencia"`
	AlunosAtivos           int             `json:"alunos_ativos"`
	AlunosTotal            int             `json:"alunos_total"`
	MediaProgresso         float64         `json:"media_progresso"`
	TreinosPorMes          []MonthActivity `json:"treinos_por_mes"`
	ProgressoCarga         []WeekLoad      `json:"progresso_carga"`
	DistribuicaoExercicios []CategoryShare `json:"distribuicao_exercicios"`
	FrequenciaSemanal      []WeekdayCount  `json:"frequencia_semanal"`
	TopExercicios          []TopExercicio  `json:"top_exercicios"`
	Alunos                 []AlunoStats    `json:"alunos"`
}

type LoadPoint struct {
	Data  string `json:"data"`
	Carga int    `json:"carga"`
}

type LoadEvolution struct {
	Exercicio string      `json:"exercicio"`
	Dados     []LoadPoint `json:"dados"`
}

type CategoryProgress struct {
	Categoria   string  `json:"categoria"`
	Exercicios  int     `json:"exercicios"`
	MediaCarga  float64 `json:"mediaCarga"`
	TotalSeries int     `json:"totalSeries"`
	TotalReps   int     `json:"totalReps"`
}

type HistoryDetail struct {
	Exercicio string `json:"exercicio"`
	Series    int    `json:"series"`
	Reps      string `json:"reps"`
	Carga     int    `json:"carga"`
}

type HistoryEntry struct {
	ID         uint            `json:"id"`
	Nome       string          `json:"nome"`
	Data       string          `json:"data"`
	Categoria  string          `json:"categoria"`
	Exercicios int             `json:"exercicios"`
	Ativo      bool            `json:"ativo"`
	Detalhes   []HistoryDetail `json:"detalhes"`
}

type AlunoReport struct {
	TotalTreinos       int                `json:"total_treinos"`
	TreinosAtivos      int                `json:"treinos_ativos"`
	TreinosPeriodo     int                `json:"treinos_periodo"`
	SequenciaDias      int                `json:"sequencia_dias"`
	TempoTotalMinutos  int                `json:"tempo_total_minutos"`
	EvolucaoCarga      []LoadEvolution    `json:"evolucao_carga"`
	ProgressoCategoria []CategoryProgress `json:"progresso_categoria"`
	Historico          []HistoryEntry     `json:"historico"`
}

type NameCount struct {
	Nome  string `json:"nome"`
	Total int    `json:"total"`
}

type CategoryRank struct {
	Categoria string `json:"categoria"`
	Total     int    `json:"total"`
	Cor       string `json:"cor"`
}

type AcademiaGrowth struct {
	Mes     string `json:"mes"`
	Alunos  int    `json:"alunos"`
	Treinos int    `json:"treinos"`
}

type PersonalActivity struct {
	ID      uint   `json:"id"`
	Nome    string `json:"nome"`
	Treinos int    `json:"treinos"`
	Alunos  int    `json:"alunos"`
}

type AcademiaReport struct {
	TotalAlunos       int                `json:"total_alunos"`
	TotalPersonais    int                `json:"total_personais"`
	TotalTreinos      int                `json:"total_treinos"`
	TreinosPeriodo    int                `json:"treinos_periodo"`
	MediaTreinosDia   float64            `json:"media_treinos_dia"`
	TaxaRetencao      float64            `json:"taxa_retencao"`
	TreinosRanking    []NameCount        `json:"treinos_ranking"`
	CategoriasRanking []CategoryRank     `json:"categorias_ranking"`
	Crescimento       []AcademiaGrowth   `json:"crescimento"`
	PersonaisAtivos   []PersonalActivity `json:"personais_ativos"`
}

type AcademiaActivity struct {
	ID        uint   `json:"id"`
	Nome      string `json:"nome"`
	Alunos    int    `json:"alunos"`
	Personais int    `json:"personais"`
	Treinos   int    `json:"treinos"`
}

type ExercicioUsage struct {
	Exercicio string `json:"exercicio"`
	Categoria string `json:"categoria"`
	Usos      int    `json:"usos"`
}

type UserTypeShare struct {
	Tipo  string `json:"tipo"`
	Total int64  `json:"total"`
	Cor   string `json:"cor"`
}

// Performance summarises the server's own request metrics.
type Performance struct {
	TotalRequisicoes   int64   `json:"total_requisicoes"`
	TempoMedioResposta float64 `json:"tempo_medio_resposta"`
	Uptime             float64 `json:"uptime"`
	Erros24h           int64   `json:"erros_24h"`
}

type AdminReport struct {
	TotalUsuarios        int64              `json:"total_usuarios"`
	TotalAcademias       int64              `json:"total_academias"`
	TotalPersonais       int64              `json:"total_personais"`
	TotalAlunos          int64              `json:"total_alunos"`
	TotalTreinos         int64              `json:"total_treinos"`
	TotalExercicios      int64              `json:"total_exercicios"`
	UsuariosAtivos       int64              `json:"usuarios_ativos"`
	TaxaUsuariosAtivos   float64            `json:"taxa_usuarios_ativos"`
	TreinosPeriodo       int                `json:"treinos_periodo"`
	TreinosPorDia        float64            `json:"treinos_por_dia"`
	CrescimentoUsuarios  []UserGrowth       `json:"crescimento_usuarios"`
	VolumeTreinos        []MonthCount       `json:"volume_treinos"`
	DistribuicaoUsuarios []UserTypeShare    `json:"distribuicao_usuarios"`
	TopAcademias         []AcademiaActivity `json:"top_academias"`
	ExerciciosPopulares  []ExercicioUsage   `json:"exercicios_populares"`
	Performance          Performance        `json:"performance"`
}
