package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// PersonalReport covers the trainer's own workouts over the period. An
// AlunoID narrows every figure to that student.
func (s *StatsService) PersonalReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.PersonalReport, error) {
	if err := requireRole(actor, api.UserTypePersonal); err != nil {
		return nil, err
	}
	if _, err := s.personalProfile(ctx, actor); err != nil {
		return nil, err
	}

	var (
		alunos []*models.Aluno
		all    []*models.Treino
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		alunos, err = s.repos.Alunos.FindAll(gctx, repository.AlunoFilter{PersonalID: &actor.ID})
		return err
	})
	g.Go(func() (err error) {
		all, err = s.repos.Treinos.FindAll(gctx, repository.TreinoFilter{PersonalID: &actor.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scoped := all
	if f.AlunoID != nil {
		scoped = nil
		for _, t := range all {
			if t.AlunoID == *f.AlunoID {
				scoped = append(scoped, t)
			}
		}
		var only []*models.Aluno
		for _, a := range alunos {
			if a.UserID == *f.AlunoID {
				only = append(only, a)
			}
		}
		alunos = only
	}

	now := s.now()
	days := f.Periodo.Days()
	since := f.Periodo.Since(now)
	prevSince := since.AddDate(0, 0, -days)
	periodo := filterSince(scoped, since)
	anterior := filterBetween(scoped, prevSince, since)

	stats := alunoStats(alunos, periodo, days)
	taxa := meanFrequency(stats)
	taxaAnterior := meanFrequency(alunoStats(alunos, anterior, days))
	ativos := 0
	for _, st := range stats {
		if st.Treinos > 0 {
			ativos++
		}
	}

	starts := monthStarts(now, 6)
	treinosMes := bucketMonths(starts, treinoTimes(scoped))
	joined := make([]time.Time, len(alunos))
	for i, a := range alunos {
		joined[i] = a.User.CreatedAt
	}
	alunosMes := joinedBefore(starts, joined)
	porMes := make([]api.MonthActivity, len(starts))
	for i, st := range starts {
		porMes[i] = api.MonthActivity{Mes: st.Format("Jan"), Treinos: treinosMes[i], Alunos: alunosMes[i]}
	}

	return &api.PersonalReport{
		TreinosCriados:         len(periodo),
		VariacaoTreinos:        round1(float64(len(periodo)-len(anterior)) / float64(max(len(anterior), 1)) * 100),
		TaxaFrequencia:         taxa,
		VariacaoFrequencia:     round1(taxa - taxaAnterior),
		AlunosAtivos:           ativos,
		AlunosTotal:            len(alunos),
		MediaProgresso:         loadProgress(periodo),
		TreinosPorMes:          porMes,
		ProgressoCarga:         weeklyLoad(scoped, now, 4),
		DistribuicaoExercicios: categoryShares(periodo),
		FrequenciaSemanal:      weekdayFrequency(periodo),
		TopExercicios:          topExercicios(periodo, 10),
		Alunos:                 stats,
	}, nil
}

func (s *StatsService) AlunoReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AlunoReport, error) {
	if err := requireRole(actor, api.UserTypeAluno); err != nil {
		return nil, err
	}
	if _, err := s.alunoProfile(ctx, actor); err != nil {
		return nil, err
	}
	all, err := s.repos.Treinos.FindAll(ctx, repository.TreinoFilter{AlunoID: &actor.ID})
	if err != nil {
		return nil, err
	}

	now := s.now()
	since := f.Periodo.Since(now)
	periodo := filterSince(all, since)

	return &api.AlunoReport{
		TotalTreinos:       len(all),
		TreinosAtivos:      countAtivos(all),
		TreinosPeriodo:     len(periodo),
		SequenciaDias:      streakDays(all, now),
		TempoTotalMinutos:  countItens(all) * minutosPorExercicio,
		EvolucaoCarga:      loadEvolution(all, since, 5),
		ProgressoCategoria: categoryProgress(periodo),
		Historico:          history(periodo, 20),
	}, nil
}

// AcademiaReport covers the caller's academia. A system admin sees every
// academia, or the one named by AcademiaID.
func (s *StatsService) AcademiaReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AcademiaReport, error) {
	if err := requireRole(actor, api.UserTypeAdmin, api.UserTypeAdminSistema); err != nil {
		return nil, err
	}
	out := &api.AcademiaReport{
		TreinosRanking:    []api.NameCount{},
		CategoriasRanking: []api.CategoryRank{},
		Crescimento:       []api.AcademiaGrowth{},
		PersonaisAtivos:   []api.PersonalActivity{},
	}

	id := actor.AcademiaID
	if actor.UserType == api.UserTypeAdminSistema {
		id = f.AcademiaID
		if id != nil {
			if _, err := s.repos.Academias.FindByID(ctx, *id, repository.AcademiaFilter{}); err != nil {
				return nil, err
			}
		}
	} else if id == nil {
		return out, nil
	}

	data, err := s.loadAcademia(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	days := f.Periodo.Days()
	periodo := filterSince(data.treinos, f.Periodo.Since(now))

	starts := monthStarts(now, 6)
	joined := make([]time.Time, len(data.alunos))
	for i, a := range data.alunos {
		joined[i] = a.User.CreatedAt
	}
	novosAlunos := bucketMonths(starts, joined)
	novosTreinos := bucketMonths(starts, treinoTimes(data.treinos))
	for i, st := range starts {
		out.Crescimento = append(out.Crescimento, api.AcademiaGrowth{
			Mes:     st.Format("Jan"),
			Alunos:  novosAlunos[i],
			Treinos: novosTreinos[i],
		})
	}

	ids := make([]uint, len(data.personais))
	for i, p := range data.personais {
		ids[i] = p.UserID
	}
	treinosBy, err := s.repos.Treinos.CountByPersonal(ctx, ids)
	if err != nil {
		return nil, err
	}
	alunosBy, err := s.repos.Alunos.CountByPersonal(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range data.personais {
		out.PersonaisAtivos = append(out.PersonaisAtivos, api.PersonalActivity{
			ID:      p.UserID,
			Nome:    p.User.DisplayName(),
			Treinos: int(treinosBy[p.UserID]),
			Alunos:  int(alunosBy[p.UserID]),
		})
	}
	sort.SliceStable(out.PersonaisAtivos, func(i, j int) bool {
		return out.PersonaisAtivos[i].Treinos > out.PersonaisAtivos[j].Treinos
	})
	if len(out.PersonaisAtivos) > 10 {
		out.PersonaisAtivos = out.PersonaisAtivos[:10]
	}

	out.TotalAlunos = len(data.alunos)
	out.TotalPersonais = len(data.personais)
	out.TotalTreinos = len(data.treinos)
	out.TreinosPeriodo = len(periodo)
	out.MediaTreinosDia = round1(float64(len(periodo)) / float64(max(days, 1)))
	out.TaxaRetencao = retentionRate(data.alunos, data.treinos)
	out.TreinosRanking = treinoNameRanking(data.treinos, 10)
	out.CategoriasRanking = categoryRanking(data.treinos)
	return out, nil
}

func (s *StatsService) AdminReport(ctx context.Context, actor *models.User, f api.ReportFilter) (*api.AdminReport, error) {
	if err := requireRole(actor, api.UserTypeAdminSistema); err != nil {
		return nil, err
	}
	data, err := s.loadSystem(ctx)
	if err != nil {
		return nil, err
	}

	var exercicios, ativos, admins, sistema int64
	active := true
	adminType, sistemaType := api.UserTypeAdmin, api.UserTypeAdminSistema
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		exercicios, err = s.repos.Exercicios.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		ativos, err = s.repos.Users.Count(gctx, repository.UserFilter{Active: &active})
		return err
	})
	g.Go(func() (err error) {
		admins, err = s.repos.Users.Count(gctx, repository.UserFilter{UserType: &adminType})
		return err
	})
	g.Go(func() (err error) {
		sistema, err = s.repos.Users.Count(gctx, repository.UserFilter{UserType: &sistemaType})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	days := f.Periodo.Days()
	periodo := filterSince(data.treinos, f.Periodo.Since(now))
	starts := monthStarts(now, 12)

	ids := academiaIDs(data.academias)
	alunosBy, err := s.repos.Alunos.CountByAcademia(ctx, ids)
	if err != nil {
		return nil, err
	}
	personaisBy, err := s.repos.Users.CountPersonaisByAcademia(ctx, ids)
	if err != nil {
		return nil, err
	}
	treinosBy := make(map[uint]int)
	for _, t := range data.treinos {
		if t.Aluno.AcademiaID != nil {
			treinosBy[*t.Aluno.AcademiaID]++
		}
	}
	top := make([]api.AcademiaActivity, 0, len(data.academias))
	for _, a := range data.academias {
		top = append(top, api.AcademiaActivity{
			ID:        a.ID,
			Nome:      a.NomeFantasia,
			Alunos:    int(alunosBy[a.ID]),
			Personais: int(personaisBy[a.ID]),
			Treinos:   treinosBy[a.ID],
		})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Alunos > top[j].Alunos })
	if len(top) > 10 {
		top = top[:10]
	}

	var perf api.Performance
	if s.perf != nil {
		perf = s.perf.Snapshot()
	}

	return &api.AdminReport{
		TotalUsuarios:       data.usuarios,
		TotalAcademias:      int64(len(data.academias)),
		TotalPersonais:      int64(len(data.personais)),
		TotalAlunos:         int64(len(data.alunos)),
		TotalTreinos:        int64(len(data.treinos)),
		TotalExercicios:     exercicios,
		UsuariosAtivos:      ativos,
		TaxaUsuariosAtivos:  pct(float64(ativos), float64(data.usuarios)),
		TreinosPeriodo:      len(periodo),
		TreinosPorDia:       round1(float64(len(periodo)) / float64(max(days, 1))),
		CrescimentoUsuarios: userGrowth(starts, data.alunos, data.personais, data.academias, "Jan/06"),
		VolumeTreinos:       monthCounts(starts, treinoTimes(data.treinos), "Jan/06"),
		DistribuicaoUsuarios: []api.UserTypeShare{
			{Tipo: "Alunos", Total: int64(len(data.alunos)), Cor: "#3b82f6"},
			{Tipo: "Personal Trainers", Total: int64(len(data.personais)), Cor: "#22c55e"},
			{Tipo: "Admins Academia", Total: admins, Cor: "#f59e0b"},
			{Tipo: "Admins Sistema", Total: sistema, Cor: "#ef4444"},
		},
		TopAcademias:        top,
		ExerciciosPopulares: exercicioUsage(data.treinos, 10),
		Performance:         perf,
	}, nil
}
