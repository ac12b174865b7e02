package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

type fixedPerformance api.Performance

func (p fixedPerformance) Snapshot() api.Performance { return api.Performance(p) }

func newStats(f *fixture, perf PerformanceSource) *StatsService {
	svc := NewStatsService(f.repos, perf)
	now := f.store.clock.Add(time.Hour)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboardsAreRoleGated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newStats(f, nil)

	_, err := svc.PersonalDashboard(ctx, f.aluno)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.AlunoDashboard(ctx, f.personal)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.AcademiaDashboard(ctx, f.personal)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.AdminDashboard(ctx, f.admin)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.AdminReport(ctx, f.admin, api.ReportFilter{})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.repos.Alunos.Delete(ctx, f.aluno.ID))
	_, err = svc.AlunoDashboard(ctx, f.aluno)
	var missing *ProfileNotFoundError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Perfil de aluno não encontrado", missing.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersonalAndAlunoDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newStats(f, nil)

	p, err := svc.PersonalDashboard(ctx, f.personal)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalAlunos)
	assert.Equal(t, int64(1), p.TotalAcademias)
	assert.Equal(t, int64(1), p.TotalTreinos)
	assert.Equal(t, 100.0, p.TaxaAtividade)
	require.Len(t, p.TreinosPorMes, 6)
	assert.Equal(t, api.MonthCount{Mes: "Jun", Treinos: 1}, p.TreinosPorMes[5])
	assert.Equal(t, []api.ExercicioCount{{Nome: "Supino Reto", Total: 1}}, p.TopExercicios)
	require.Len(t, p.AlunosRecentes, 1)
	assert.Equal(t, f.aluno.ID, p.AlunosRecentes[0].ID)

	a, err := svc.AlunoDashboard(ctx, f.aluno)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.TotalTreinos)
	assert.Equal(t, int64(1), a.TreinosAtivos)
	assert.Equal(t, 1, a.SequenciaDias)
	assert.Equal(t, 3, a.TempoTotalMinutos)
	assert.Equal(t, 1, a.MetaSemanalAtual)
	assert.Equal(t, 5, a.MetaSemanalTotal)
	require.Len(t, a.Treinos, 1)
	assert.Equal(t, "Treino A", a.Treinos[0].NomeTreino)
}

func TestAcademiaAndAdminDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newStats(f, nil)

	empty, err := svc.AcademiaDashboard(ctx, f.adminSemAcademia)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAlunos)
	assert.Empty(t, empty.Personais)

	ac, err := svc.AcademiaDashboard(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ac.TotalAlunos)
	assert.Equal(t, int64(1), ac.TotalPersonais)
	assert.Equal(t, int64(1), ac.TotalTreinos)
	assert.Equal(t, 100.0, ac.TaxaRetencao)
	require.Len(t, ac.Personais, 1)
	assert.Equal(t, f.personal.ID, ac.Personais[0].ID)

	ad, err := svc.AdminDashboard(ctx, f.root)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ad.TotalUsuarios)
	assert.Equal(t, int64(2), ad.TotalAcademias)
	assert.Equal(t, int64(2), ad.TotalPersonais)
	assert.Equal(t, int64(2), ad.TotalAlunos)
	assert.Equal(t, int64(2), ad.TotalTreinos)
	require.Len(t, ad.CrescimentoUsuarios, 6)
	assert.Equal(t, api.UserGrowth{Mes: "Jun", Alunos: 2, Personais: 2}, ad.CrescimentoUsuarios[5])
	assert.Len(t, ad.TopAcademias, 2)
}

func TestPersonalReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newStats(f, nil)

	r, err := svc.PersonalReport(ctx, f.personal, api.ReportFilter{Periodo: api.PeriodoSemana})
	require.NoError(t, err)
	assert.Equal(t, 1, r.TreinosCriados)
	assert.Equal(t, 100.0, r.VariacaoTreinos)
	assert.Equal(t, 1, r.AlunosAtivos)
	assert.Equal(t, 1, r.AlunosTotal)
	assert.Equal(t, 20.0, r.TaxaFrequencia)
	require.Len(t, r.TreinosPorMes, 6)
	assert.Equal(t, api.MonthActivity{Mes: "Jun", Treinos: 1, Alunos: 1}, r.TreinosPorMes[5])
	assert.Len(t, r.ProgressoCarga, 4)
	assert.Len(t, r.FrequenciaSemanal, 7)
	require.Len(t, r.DistribuicaoExercicios, 1)
	assert.Equal(t, "#ef4444", r.DistribuicaoExercicios[0].Cor)

	other, err := svc.PersonalReport(ctx, f.personal, api.ReportFilter{AlunoID: &f.outroAluno.ID})
	require.NoError(t, err)
	assert.Zero(t, other.TreinosCriados)
	assert.Zero(t, other.AlunosTotal)
	assert.Empty(t, other.Alunos)
}

func TestAlunoAndAcademiaReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newStats(f, nil)

	a, err := svc.AlunoReport(ctx, f.aluno, api.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, a.TreinosPeriodo)
	require.Len(t, a.Historico, 1)
	assert.Equal(t, "Peito", a.Historico[0].Categoria)
	require.Len(t, a.EvolucaoCarga, 1)
	assert.Equal(t, 40, a.EvolucaoCarga[0].Dados[0].Carga)

	_, err = svc.AcademiaReport(ctx, f.root, api.ReportFilter{AcademiaID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrNotFound)

	norte, err := svc.AcademiaReport(ctx, f.root, api.ReportFilter{AcademiaID: &f.outraAcademia.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, norte.TotalTreinos)
	require.Len(t, norte.PersonaisAtivos, 1)
	assert.Equal(t, f.outroPersonal.ID, norte.PersonaisAtivos[0].ID)
	assert.Equal(t, []api.NameCount{{Nome: "Treino B", Total: 1}}, norte.TreinosRanking)

	own, err := svc.AcademiaReport(ctx, f.admin, api.ReportFilter{AcademiaID: &f.outraAcademia.ID})
	require.NoError(t, err)
	require.Len(t, own.TreinosRanking, 1)
	assert.Equal(t, "Treino A", own.TreinosRanking[0].Nome)
	assert.Equal(t, 1, own.TreinosPeriodo)
}

func TestAdminReport(t *testing.T) {
	f := newFixture(t)
	perf := fixedPerformance{TotalRequisicoes: 42, TempoMedioResposta: 12.5, Uptime: 99.9, Erros24h: 1}
	svc := newStats(f, perf)

	r, err := svc.AdminReport(context.Background(), f.root, api.ReportFilter{Periodo: api.PeriodoAno})
	require.NoError(t, err)
	assert.Equal(t, api.Performance(perf), r.Performance)
	assert.Equal(t, int64(2), r.TotalExercicios)
	assert.Equal(t, 100.0, r.TaxaUsuariosAtivos)
	assert.Equal(t, 2, r.TreinosPeriodo)
	require.Len(t, r.VolumeTreinos, 12)
	assert.Equal(t, api.MonthCount{Mes: "Jun/24", Treinos: 2}, r.VolumeTreinos[11])
	assert.Equal(t, "Jul/23", r.VolumeTreinos[0].Mes)
	require.Len(t, r.DistribuicaoUsuarios, 4)
	assert.Equal(t, int64(2), r.DistribuicaoUsuarios[2].Total)
	assert.Equal(t, int64(1), r.DistribuicaoUsuarios[3].Total)
	assert.Len(t, r.TopAcademias, 2)
	require.Len(t, r.ExerciciosPopulares, 1)
	assert.Equal(t, "Supino Reto", r.ExerciciosPopulares[0].Exercicio)
}
