package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of the logged in role",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return renderDashboard(cmd.Context(), cmd.OutOrStdout(), a.client, me.UserType)
		},
	}
}

func renderDashboard(ctx context.Context, out io.Writer, c *client.Client, role api.UserType) error {
	switch role {
	case api.UserTypePersonal:
		d, err := c.Dashboard.Personal(ctx)
		if err != nil {
			return err
		}
		renderFigures(out, "Painel do personal", [][2]any{
			{"Alunos", d.TotalAlunos},
			{"Academias", d.TotalAcademias},
			{"Treinos", d.TotalTreinos},
			{"Taxa de atividade", percent(d.TaxaAtividade)},
		})
		renderMonths(out, d.TreinosPorMes)
		t := newTable(out, "Exercício", "Vezes")
		for _, e := range d.TopExercicios {
			t.AppendRow(table.Row{e.Nome, e.Total})
		}
		t.Render()
	case api.UserTypeAluno:
		d, err := c.Dashboard.Aluno(ctx)
		if err != nil {
			return err
		}
		renderFigures(out, "Painel do aluno", [][2]any{
			{"Treinos", d.TotalTreinos},
			{"Treinos ativos", d.TreinosAtivos},
			{"Sequência (dias)", d.SequenciaDias},
			{"Tempo total (min)", d.TempoTotalMinutos},
			{"Meta semanal", fmt.Sprintf("%d/%d", d.MetaSemanalAtual, d.MetaSemanalTotal)},
		})
	case api.UserTypeAdmin:
		d, err := c.Dashboard.Academia(ctx)
		if err != nil {
			return err
		}
		renderFigures(out, "Painel da academia", [][2]any{
			{"Alunos", d.TotalAlunos},
			{"Personais", d.TotalPersonais},
			{"Treinos", d.TotalTreinos},
			{"Retenção", percent(d.TaxaRetencao)},
		})
		t := newTable(out, "Personal", "CREF", "Alunos", "Treinos")
		for _, p := range d.Personais {
			t.AppendRow(table.Row{p.Nome, p.CREF, p.TotalAlunos, p.TotalTreinos})
		}
		t.Render()
	case api.UserTypeAdminSistema:
		d, err := c.Dashboard.Admin(ctx)
		if err != nil {
			return err
		}
		renderFigures(out, "Painel do sistema", [][2]any{
			{"Usuários", d.TotalUsuarios},
			{"Academias", d.TotalAcademias},
			{"Personais", d.TotalPersonais},
			{"Alunos", d.TotalAlunos},
			{"Treinos", d.TotalTreinos},
		})
		renderMonths(out, d.VolumeTreinos)
	default:
		return fmt.Errorf("nenhum painel para o perfil %q", role)
	}
	return nil
}

func renderMonths(out io.Writer, months []api.MonthCount) {
	t := newTable(out, "Mês", "Treinos")
	for _, m := range months {
		t.AppendRow(table.Row{m.Mes, m.Treinos})
	}
	t.Render()
}

func newRelatorioCmd(a *app) *cobra.Command {
	var periodo string
	cmd := &cobra.Command{
		Use:   "relatorio",
		Short: "Show the detailed report of the logged in role",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			f := api.ReportFilter{
				Periodo:    api.ParsePeriodo(periodo),
				AlunoID:    optionalID(cmd.Flags(), "aluno"),
				AcademiaID: optionalID(cmd.Flags(), "academia"),
			}
			return renderReport(cmd.Context(), cmd.OutOrStdout(), a.client, me.UserType, f)
		},
	}
	cmd.Flags().StringVar(&periodo, "periodo", string(api.PeriodoMes), "semana, mes, trimestre or ano")
	cmd.Flags().Uint("aluno", 0, "narrow a trainer report to one student")
	cmd.Flags().Uint("academia", 0, "gym to report on (system admins)")
	return cmd
}

func renderReport(ctx context.Context, out io.Writer, c *client.Client, role api.UserType, f api.ReportFilter) error {
	title := fmt.Sprintf("Relatório (%s, %d dias)", f.Periodo, f.Periodo.Days())
	switch role {
	case api.UserTypePersonal:
		r, err := c.Relatorios.Personal(ctx, f)
		if err != nil {
			return err
		}
		renderFigures(out, title, [][2]any{
			{"Treinos criados", r.TreinosCriados},
			{"Variação", fmt.Sprintf("%+.1f%%", r.VariacaoTreinos)},
			{"Frequência", percent(r.TaxaFrequencia)},
			{"Alunos ativos", fmt.Sprintf("%d/%d", r.AlunosAtivos, r.AlunosTotal)},
			{"Progresso médio", fmt.Sprintf("%+.1f%%", r.MediaProgresso)},
		})
		t := newTable(out, "Aluno", "Treinos", "Frequência", "Último treino")
		for _, al := range r.Alunos {
			t.AppendRow(table.Row{al.Nome, al.Treinos, percent(al.Frequencia), deref(al.UltimoTreino)})
		}
		t.Render()
	case api.UserTypeAluno:
		r, err := c.Relatorios.Aluno(ctx, f)
		if err != nil {
			return err
		}
		renderFigures(out, title, [][2]any{
			{"Treinos no período", r.TreinosPeriodo},
			{"Treinos", r.TotalTreinos},
			{"Treinos ativos", r.TreinosAtivos},
			{"Sequência (dias)", r.SequenciaDias},
			{"Tempo total (min)", r.TempoTotalMinutos},
		})
		t := newTable(out, "Categoria", "Exercícios", "Carga média", "Séries", "Repetições")
		for _, p := range r.ProgressoCategoria {
			t.AppendRow(table.Row{p.Categoria, p.Exercicios, p.MediaCarga, p.TotalSeries, p.TotalReps})
		}
		t.Render()
	case api.UserTypeAdmin:
		r, err := c.Relatorios.Academia(ctx, f)
		if err != nil {
			return err
		}
		renderFigures(out, title, [][2]any{
			{"Alunos", r.TotalAlunos},
			{"Personais", r.TotalPersonais},
			{"Treinos no período", r.TreinosPeriodo},
			{"Treinos por dia", r.MediaTreinosDia},
			{"Retenção", percent(r.TaxaRetencao)},
		})
		t := newTable(out, "Personal", "Treinos", "Alunos")
		for _, p := range r.PersonaisAtivos {
			t.AppendRow(table.Row{p.Nome, p.Treinos, p.Alunos})
		}
		t.Render()
	case api.UserTypeAdminSistema:
		r, err := c.Relatorios.Admin(ctx, f)
		if err != nil {
			return err
		}
		renderFigures(out, title, [][2]any{
			{"Usuários ativos", fmt.Sprintf("%d/%d", r.UsuariosAtivos, r.TotalUsuarios)},
			{"Treinos no período", r.TreinosPeriodo},
			{"Treinos por dia", r.TreinosPorDia},
			{"Requisições", r.Performance.TotalRequisicoes},
			{"Tempo médio (ms)", r.Performance.TempoMedioResposta},
			{"Disponibilidade", percent(r.Performance.Uptime)},
			{"Erros (24h)", r.Performance.Erros24h},
		})
		t := newTable(out, "Academia", "Alunos", "Personais", "Treinos")
		for _, ac := range r.TopAcademias {
			t.AppendRow(table.Row{ac.Nome, ac.Alunos, ac.Personais, ac.Treinos})
		}
		t.Render()
	default:
		return fmt.Errorf("nenhum relatório para o perfil %q", role)
	}
	return nil
}
