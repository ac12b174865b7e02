package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
)

const listLimit = 5

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func status(ativo bool) string {
	if ativo {
		return "🟢"
	}
	return "⚪"
}

func formatMe(u *api.UserDetail) string {
	var sb strings.Builder
	sb.WriteString("👤 *Seus dados*\n\n")
	if u.FullName != "" {
		fmt.Fprintf(&sb, "Nome: %s\n", escape(u.FullName))
	}
	fmt.Fprintf(&sb, "Email: %s\n", escape(u.Email))
	fmt.Fprintf(&sb, "Perfil: %s\n", u.UserType.Label())
	if !u.DateJoined.IsZero() {
		fmt.Fprintf(&sb, "Desde: %s", u.DateJoined.Format("02/01/2006"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatTreinos(treinos []api.TreinoSummary) string {
	if len(treinos) == 0 {
		return "📭 Nenhum treino encontrado."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏋️ *Treinos* (%d)\n\n", len(treinos))
	for _, t := range treinos {
		fmt.Fprintf(&sb, "%s #%d %s - %s, %d exercícios\n",
			status(t.Ativo), t.ID, escape(t.NomeTreino), escape(t.AlunoNome), t.TotalExercicios)
	}
	sb.WriteString("\nUse /treino <id> para ver os detalhes.")
	return sb.String()
}

func formatTreino(t *api.Treino) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s*\n", status(t.Ativo), escape(t.NomeTreino))
	fmt.Fprintf(&sb, "Aluno: %s\n", escape(t.Aluno.Nome))
	if t.PersonalCriador != nil {
		fmt.Fprintf(&sb, "Personal: %s\n", escape(t.PersonalCriador.Nome))
	}
	fmt.Fprintf(&sb, "Criado em: %s\n", t.DataCriacao.Format("02/01/2006"))
	if t.Descricao != nil && *t.Descricao != "" {
		fmt.Fprintf(&sb, "\n%s\n", escape(*t.Descricao))
	}

	if len(t.Itens) == 0 {
		sb.WriteString("\nNenhum exercício cadastrado.")
		return sb.String()
	}
	sb.WriteString("\n")
	for i, it := range t.Itens {
		fmt.Fprintf(&sb, "%d. %s - %dx%s", i+1, escape(it.Exercicio.Nome), it.Series, escape(it.Repeticoes))
		if it.CargaKg != nil {
			fmt.Fprintf(&sb, " @ %dkg", *it.CargaKg)
		}
		if it.Observacoes != nil && *it.Observacoes != "" {
			fmt.Fprintf(&sb, " (%s)", escape(*it.Observacoes))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dashboard(ctx context.Context, c *client.Client, role api.UserType) (string, error) {
	var sb strings.Builder
	sb.WriteString("📊 *Painel*\n\n")

	switch role {
	case api.UserTypePersonal:
		d, err := c.Dashboard.Personal(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Alunos: %d\nAcademias: %d\nTreinos: %d\nTaxa de atividade: %.1f%%\n",
			d.TotalAlunos, d.TotalAcademias, d.TotalTreinos, d.TaxaAtividade)
		if len(d.TopExercicios) > 0 {
			sb.WriteString("\n*Exercícios mais usados*\n")
			for _, e := range d.TopExercicios[:min(listLimit, len(d.TopExercicios))] {
				fmt.Fprintf(&sb, "• %s (%d)\n", escape(e.Nome), e.Total)
			}
		}
	case api.UserTypeAluno:
		d, err := c.Dashboard.Aluno(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Treinos: %d (%d ativos)\nSequência: %d dias\nTempo total: %d min\nMeta semanal: %d/%d\n",
			d.TotalTreinos, d.TreinosAtivos, d.SequenciaDias, d.TempoTotalMinutos,
			d.MetaSemanalAtual, d.MetaSemanalTotal)
	case api.UserTypeAdmin:
		d, err := c.Dashboard.Academia(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Alunos: %d\nPersonais: %d\nTreinos: %d\nRetenção: %.1f%%\n",
			d.TotalAlunos, d.TotalPersonais, d.TotalTreinos, d.TaxaRetencao)
	case api.UserTypeAdminSistema:
		d, err := c.Dashboard.Admin(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Usuários: %d\nAcademias: %d\nPersonais: %d\nAlunos: %d\nTreinos: %d\n",
			d.TotalUsuarios, d.TotalAcademias, d.TotalPersonais, d.TotalAlunos, d.TotalTreinos)
		if len(d.TopAcademias) > 0 {
			sb.WriteString("\n*Academias com mais alunos*\n")
			for _, a := range d.TopAcademias[:min(listLimit, len(d.TopAcademias))] {
				fmt.Fprintf(&sb, "• %s (%d)\n", escape(a.NomeFantasia), a.TotalAlunos)
			}
		}
	default:
		return "Nenhum painel disponível para o seu perfil.", nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func report(ctx context.Context, c *client.Client, role api.UserType, periodo api.Periodo) (string, error) {
	f := api.ReportFilter{Periodo: periodo}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 *Relatório* (%s, %d dias)\n\n", periodo, periodo.Days())

	switch role {
	case api.UserTypePersonal:
		r, err := c.Relatorios.Personal(ctx, f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Treinos criados: %d (%+.1f%%)\nFrequência: %.1f%% (%+.1f%%)\nAlunos ativos: %d/%d\nProgresso médio de carga: %+.1f%%\n",
			r.TreinosCriados, r.VariacaoTreinos, r.TaxaFrequencia, r.VariacaoFrequencia,
			r.AlunosAtivos, r.AlunosTotal, r.MediaProgresso)
		if len(r.TopExercicios) > 0 {
			sb.WriteString("\n*Exercícios mais prescritos*\n")
			for _, e := range r.TopExercicios[:min(listLimit, len(r.TopExercicios))] {
				fmt.Fprintf(&sb, "• %s (%d)\n", escape(e.Exercicio), e.Vezes)
			}
		}
	case api.UserTypeAluno:
		r, err := c.Relatorios.Aluno(ctx, f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Treinos no período: %d\nTotal: %d (%d ativos)\nSequência: %d dias\nTempo total: %d min\n",
			r.TreinosPeriodo, r.TotalTreinos, r.TreinosAtivos, r.SequenciaDias, r.TempoTotalMinutos)
		if len(r.EvolucaoCarga) > 0 {
			sb.WriteString("\n*Evolução de carga*\n")
			for _, e := range r.EvolucaoCarga[:min(listLimit, len(r.EvolucaoCarga))] {
				if n := len(e.Dados); n > 0 {
					fmt.Fprintf(&sb, "• %s: %dkg → %dkg\n", escape(e.Exercicio), e.Dados[0].Carga, e.Dados[n-1].Carga)
				}
			}
		}
	case api.UserTypeAdmin:
		r, err := c.Relatorios.Academia(ctx, f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Alunos: %d\nPersonais: %d\nTreinos no período: %d (%.1f/dia)\nRetenção: %.1f%%\n",
			r.TotalAlunos, r.TotalPersonais, r.TreinosPeriodo, r.MediaTreinosDia, r.TaxaRetencao)
		if len(r.CategoriasRanking) > 0 {
			sb.WriteString("\n*Categorias*\n")
			for _, cat := range r.CategoriasRanking[:min(listLimit, len(r.CategoriasRanking))] {
				fmt.Fprintf(&sb, "• %s (%d)\n", escape(cat.Categoria), cat.Total)
			}
		}
	case api.UserTypeAdminSistema:
		r, err := c.Relatorios.Admin(ctx, f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Usuários ativos: %d/%d (%.1f%%)\nTreinos no período: %d (%.1f/dia)\n",
			r.UsuariosAtivos, r.TotalUsuarios, r.TaxaUsuariosAtivos, r.TreinosPeriodo, r.TreinosPorDia)
		p := r.Performance
		fmt.Fprintf(&sb, "\n*Servidor*\nRequisições: %d\nTempo médio: %.1f ms\nDisponibilidade: %.1f%%\nErros (24h): %d\n",
			p.TotalRequisicoes, p.TempoMedioResposta, p.Uptime, p.Erros24h)
	default:
		return "Nenhum relatório disponível para o seu perfil.", nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
