package server

import (
	"context"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// The handlers depend on these narrow views of the services so they can be
// exercised without a database.

type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Refresh(ctx context.Context, refresh string) (*api.RefreshResponse, error)
	Authenticate(ctx context.Context, access string) (*models.User, error)
	Me(actor *models.User) api.UserDetail
}

type AcademiaAPI interface {
	List(ctx context.Context, actor *models.User) ([]api.Academia, error)
	Get(ctx context.Context, actor *models.User, id uint) (*api.Academia, error)
	Create(ctx context.Context, actor *models.User, form api.AcademiaForm) (*api.Academia, error)
	Update(ctx context.Context, actor *models.User, id uint, form api.AcademiaForm) (*api.Academia, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type PersonalAPI interface {
	List(ctx context.Context, actor *models.User, academiaID *uint) ([]api.PersonalTrainer, error)
	Get(ctx context.Context, actor *models.User, id uint) (*api.PersonalTrainer, error)
	Create(ctx context.Context, actor *models.User, form api.PersonalForm) (*api.PersonalTrainer, error)
	Update(ctx context.Context, actor *models.User, id uint, form api.PersonalForm) (*api.PersonalTrainer, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type AlunoAPI interface {
	List(ctx context.Context, actor *models.User, opts service.AlunoListOptions) ([]api.Aluno, error)
	Get(ctx context.Context, actor *models.User, id uint) (*api.AlunoDetail, error)
	Create(ctx context.Context, actor *models.User, form api.AlunoForm) (*api.AlunoDetail, error)
	Update(ctx context.Context, actor *models.User, id uint, form api.AlunoForm) (*api.AlunoDetail, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type TreinoAPI interface {
	List(ctx context.Context, actor *models.User, alunoID *uint) ([]api.TreinoSummary, error)
	Get(ctx context.Context, actor *models.User, id uint) (*api.Treino, error)
	Create(ctx context.Context, actor *models.User, form api.TreinoForm) (*api.Treino, error)
	Update(ctx context.Context, actor *models.User, id uint, form api.TreinoForm) (*api.Treino, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type ExercicioAPI interface {
	List(ctx context.Context) ([]api.ExercicioSummary, error)
	Get(ctx context.Context, id uint) (*api.Exercicio, error)
	Categorias(ctx context.Context) ([]string, error)
	PorCategoria(ctx context.Context, categoria string) ([]api.ExercicioSummary, error)
}

type StatsAPI interface {
	PersonalDashboard(ctx context.Context, actor *models.User) (*api.PersonalDashboard, error)
	AlunoDashboard(ctx context.Context, actor *models.User) (*api.AlunoDashboard, error)
	AcademiaDashboard(ctx context.Context, actor *models.User) (*api.AcademiaDashboard, error)
	AdminDashboard(ctx context.Context, actor *models.User) (*api.AdminDashboard, error)
	PersonalReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.PersonalReport, error)
	AlunoReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AlunoReport, error)
	AcademiaReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AcademiaReport, error)
	AdminReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AdminReport, error)
}

// Services bundles everything the routes serve.
type Services struct {
	Auth       AuthAPI
	Academias  AcademiaAPI
	Personais  PersonalAPI
	Alunos     AlunoAPI
	Treinos    TreinoAPI
	Exercicios ExercicioAPI
	Stats      StatsAPI
}

var (
	_ AuthAPI      = (*service.AuthService)(nil)
	_ AcademiaAPI  = (*service.AcademiaService)(nil)
	_ PersonalAPI  = (*service.PersonalService)(nil)
	_ AlunoAPI     = (*service.AlunoService)(nil)
	_ TreinoAPI    = (*service.TreinoService)(nil)
	_ ExercicioAPI = (*service.ExercicioService)(nil)
	_ StatsAPI     = (*service.StatsService)(nil)
)
