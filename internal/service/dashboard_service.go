package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// PerformanceSource reports the server's own request metrics.
type PerformanceSource interface {
	Snapshot() api.Performance
}

// StatsService computes the role dashboards and the detailed reports.
type StatsService struct {
	repos *repository.Repositories
	perf  PerformanceSource
	now   func() time.Time
}

func NewStatsService(repos *repository.Repositories, perf PerformanceSource) *StatsService {
	return &StatsService{repos: repos, perf: perf, now: time.Now}
}

func requireRole(actor *models.User, allowed ...api.UserType) error {
	for _, t := range allowed {
		if actor.UserType == t {
			return nil
		}
	}
	return ErrForbidden
}

func (s *StatsService) personalProfile(ctx context.Context, actor *models.User) (*models.PersonalTrainer, error) {
	p, err := s.repos.Personais.FindByUserID(ctx, actor.ID, repository.PersonalFilter{})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ProfileNotFoundError{Kind: "personal"}
	}
	return p, err
}

func (s *StatsService) alunoProfile(ctx context.Context, actor *models.User) (*models.Aluno, error) {
	a, err := s.repos.Alunos.FindByUserID(ctx, actor.ID, repository.AlunoFilter{})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ProfileNotFoundError{Kind: "aluno"}
	}
	return a, err
}

func (s *StatsService) PersonalDashboard(ctx context.Context, actor *models.User) (*api.PersonalDashboard, error) {
	if err := requireRole(actor, api.UserTypePersonal); err != nil {
		return nil, err
	}
	if _, err := s.personalProfile(ctx, actor); err != nil {
		return nil, err
	}

	var (
		alunos    []*models.Aluno
		treinos   []*models.Treino
		academias int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		alunos, err = s.repos.Alunos.FindAll(gctx, repository.AlunoFilter{PersonalID: &actor.ID})
		return err
	})
	g.Go(func() (err error) {
		treinos, err = s.repos.Treinos.FindAll(gctx, repository.TreinoFilter{PersonalID: &actor.ID})
		return err
	})
	g.Go(func() (err error) {
		academias, err = s.repos.Academias.Count(gctx, repository.AcademiaFilter{PersonalID: &actor.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	recentes := alunos
	if len(recentes) > 5 {
		recentes = recentes[:5]
	}
	recentesOut, err := presentAlunos(ctx, s.repos, recentes, now)
	if err != nil {
		return nil, err
	}

	return &api.PersonalDashboard{
		TotalAlunos:    int64(len(alunos)),
		TotalAcademias: academias,
		TotalTreinos:   int64(len(treinos)),
		TaxaAtividade:  pct(float64(countAtivos(treinos)), float64(len(treinos))),
		TreinosPorMes:  monthCounts(monthStarts(now, 6), treinoTimes(treinos), "Jan"),
		TopExercicios:  topExercicioCounts(treinos, 5),
		AlunosRecentes: recentesOut,
	}, nil
}

func (s *StatsService) AlunoDashboard(ctx context.Context, actor *models.User) (*api.AlunoDashboard, error) {
	if err := requireRole(actor, api.UserTypeAluno); err != nil {
		return nil, err
	}
	if _, err := s.alunoProfile(ctx, actor); err != nil {
		return nil, err
	}
	treinos, err := s.repos.Treinos.FindAll(ctx, repository.TreinoFilter{AlunoID: &actor.ID})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &api.AlunoDashboard{
		TotalTreinos:      int64(len(treinos)),
		TreinosAtivos:     int64(countAtivos(treinos)),
		SequenciaDias:     streakDays(treinos, now),
		TempoTotalMinutos: countItens(treinos) * minutosPorExercicio,
		MetaSemanalAtual:  currentWeek(treinos, now),
		MetaSemanalTotal:  metaSemanal,
		Treinos:           make([]api.TreinoSummary, 0, 5),
	}
	for i, t := range treinos {
		if i == 5 {
			break
		}
		out.Treinos = append(out.Treinos, toTreinoSummary(t))
	}
	return out, nil
}

// AcademiaDashboard covers the caller's academia, or every academia for a
// system admin.
func (s *StatsService) AcademiaDashboard(ctx context.Context, actor *models.User) (*api.AcademiaDashboard, error) {
	if err := requireRole(actor, api.UserTypeAdmin, api.UserTypeAdminSistema); err != nil {
		return nil, err
	}
	out := &api.AcademiaDashboard{Personais: []api.PersonalTrainer{}}
	if actor.UserType == api.UserTypeAdmin && actor.AcademiaID == nil {
		return out, nil
	}

	data, err := s.loadAcademia(ctx, actor.AcademiaID)
	if err != nil {
		return nil, err
	}
	personais := data.personais
	if len(personais) > 5 {
		personais = personais[:5]
	}
	out.Personais, err = presentPersonais(ctx, s.repos, personais)
	if err != nil {
		return nil, err
	}
	out.TotalAlunos = int64(len(data.alunos))
	out.TotalPersonais = int64(len(data.personais))
	out.TotalTreinos = int64(len(data.treinos))
	out.TaxaRetencao = retentionRate(data.alunos, data.treinos)
	return out, nil
}

func (s *StatsService) AdminDashboard(ctx context.Context, actor *models.User) (*api.AdminDashboard, error) {
	if err := requireRole(actor, api.UserTypeAdminSistema); err != nil {
		return nil, err
	}
	data, err := s.loadSystem(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	starts := monthStarts(now, 6)
	growth := userGrowth(starts, data.alunos, data.personais, nil, "Jan")

	counts, err := s.repos.Alunos.CountByAcademia(ctx, academiaIDs(data.academias))
	if err != nil {
		return nil, err
	}
	top := append([]*models.Academia(nil), data.academias...)
	sort.SliceStable(top, func(i, j int) bool { return counts[top[i].ID] > counts[top[j].ID] })
	if len(top) > 5 {
		top = top[:5]
	}
	personaisCount, err := s.repos.Users.CountPersonaisByAcademia(ctx, academiaIDs(top))
	if err != nil {
		return nil, err
	}
	topOut := make([]api.Academia, 0, len(top))
	for _, a := range top {
		topOut = append(topOut, toAcademia(a, counts[a.ID], personaisCount[a.ID]))
	}

	return &api.AdminDashboard{
		TotalUsuarios:       data.usuarios,
		TotalAcademias:      int64(len(data.academias)),
		TotalPersonais:      int64(len(data.personais)),
		TotalAlunos:         int64(len(data.alunos)),
		TotalTreinos:        int64(len(data.treinos)),
		CrescimentoUsuarios: growth,
		VolumeTreinos:       monthCounts(starts, treinoTimes(data.treinos), "Jan"),
		TopAcademias:        topOut,
	}, nil
}

type academiaData struct {
	alunos    []*models.Aluno
	personais []*models.PersonalTrainer
	treinos   []*models.Treino
}

// loadAcademia loads the records of one academia, or of all when id is nil.
func (s *StatsService) loadAcademia(ctx context.Context, id *uint) (*academiaData, error) {
	var data academiaData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.alunos, err = s.repos.Alunos.FindAll(gctx, repository.AlunoFilter{AcademiaID: id})
		return err
	})
	g.Go(func() (err error) {
		data.personais, err = s.repos.Personais.FindAll(gctx, repository.PersonalFilter{AcademiaID: id})
		return err
	})
	g.Go(func() (err error) {
		data.treinos, err = s.repos.Treinos.FindAll(gctx, repository.TreinoFilter{AcademiaID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

type systemData struct {
	academiaData
	academias []*models.Academia
	usuarios  int64
}

func (s *StatsService) loadSystem(ctx context.Context) (*systemData, error) {
	var data systemData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.loadAcademia(gctx, nil)
		if err == nil {
			data.academiaData = *a
		}
		return err
	})
	g.Go(func() (err error) {
		data.academias, err = s.repos.Academias.FindAll(gctx, repository.AcademiaFilter{})
		return err
	})
	g.Go(func() (err error) {
		data.usuarios, err = s.repos.Users.Count(gctx, repository.UserFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func monthCounts(starts []time.Time, times []time.Time, layout string) []api.MonthCount {
	counts := bucketMonths(starts, times)
	out := make([]api.MonthCount, len(starts))
	for i, st := range starts {
		out[i] = api.MonthCount{Mes: st.Format(layout), Treinos: counts[i]}
	}
	return out
}

// userGrowth counts new students, trainers and, when given, academias per
// month.
func userGrowth(starts []time.Time, alunos []*models.Aluno, personais []*models.PersonalTrainer, academias []*models.Academia, layout string) []api.UserGrowth {
	alunoTimes := make([]time.Time, len(alunos))
	for i, a := range alunos {
		alunoTimes[i] = a.User.CreatedAt
	}
	personalTimes := make([]time.Time, len(personais))
	for i, p := range personais {
		personalTimes[i] = p.User.CreatedAt
	}
	academiaTimes := make([]time.Time, len(academias))
	for i, a := range academias {
		academiaTimes[i] = a.CreatedAt
	}
	na := bucketMonths(starts, alunoTimes)
	np := bucketMonths(starts, personalTimes)
	nacad := bucketMonths(starts, academiaTimes)
	out := make([]api.UserGrowth, len(starts))
	for i, st := range starts {
		out[i] = api.UserGrowth{Mes: st.Format(layout), Alunos: na[i], Personais: np[i], Academias: nacad[i]}
	}
	return out
}

func academiaIDs(academias []*models.Academia) []uint {
	ids := make([]uint, len(academias))
	for i, a := range academias {
		ids[i] = a.ID
	}
	return ids
}
